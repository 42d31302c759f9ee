package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/pkg/model"
	"go.uber.org/zap"
)

// analysisPayload mirrors the JSON contract of the vision prompt
type analysisPayload struct {
	OverallScore int `json:"overallScore"`
	Metrics      struct {
		Acne         int `json:"acne"`
		Wrinkles     int `json:"wrinkles"`
		Pigmentation int `json:"pigmentation"`
		Texture      int `json:"texture"`
	} `json:"metrics"`
	Summary string `json:"summary"`
}

// Defaults for fields the model left out of an otherwise valid payload
const (
	defaultOverallScore = 70
	defaultAcne         = 10
	defaultWrinkles     = 5
	defaultPigmentation = 10
	defaultTexture      = 15
)

// AnalysisParser turns raw model text into a normalized analysis result
type AnalysisParser struct {
	logger *zap.Logger
}

// NewAnalysisParser creates a new AnalysisParser
func NewAnalysisParser(logger *zap.Logger) *AnalysisParser {
	return &AnalysisParser{
		logger: logger,
	}
}

// Parse decodes the model response. A payload that does not parse as JSON
// fails the whole operation; missing or zero fields on a valid payload
// fall back to documented defaults, and all scores are clamped to 0..100.
func (p *AnalysisParser) Parse(response string) (int, model.SkinMetrics, string, error) {
	// Models sometimes wrap the JSON in markdown code fences despite the
	// prompt forbidding them
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var payload analysisPayload
	if err := json.Unmarshal([]byte(response), &payload); err != nil {
		return 0, model.SkinMetrics{}, "", fmt.Errorf("failed to unmarshal analysis JSON: %w", err)
	}

	overall := p.normalizeScore("overallScore", payload.OverallScore, defaultOverallScore)
	metrics := model.SkinMetrics{
		Acne:         p.normalizeScore("acne", payload.Metrics.Acne, defaultAcne),
		Wrinkles:     p.normalizeScore("wrinkles", payload.Metrics.Wrinkles, defaultWrinkles),
		Pigmentation: p.normalizeScore("pigmentation", payload.Metrics.Pigmentation, defaultPigmentation),
		Texture:      p.normalizeScore("texture", payload.Metrics.Texture, defaultTexture),
	}

	summary := strings.TrimSpace(payload.Summary)
	if summary == "" {
		p.logger.Warn("analysis payload has no summary, using default")
		summary = defaultAnalysisSummary
	}

	return overall, metrics, summary, nil
}

// normalizeScore substitutes the default for absent values and clamps the
// rest to the 0..100 range. JSON absence and an explicit zero are
// indistinguishable here; both take the default, matching how the product
// has always read these payloads.
func (p *AnalysisParser) normalizeScore(field string, value, fallback int) int {
	if value == 0 {
		return fallback
	}
	if value < 0 {
		p.logger.Warn("score below 0, clamping", zap.String("field", field), zap.Int("value", value))
		return 0
	}
	if value > 100 {
		p.logger.Warn("score above 100, clamping", zap.String("field", field), zap.Int("value", value))
		return 100
	}
	return value
}
