package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrAccessNotConfigured signals that the AI provider credential is
// missing or rejected. Callers branch on it with errors.Is to route the
// user to access configuration instead of showing a generic failure.
var ErrAccessNotConfigured = errors.New("AI access is not configured")

// Role represents the author of a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior message of a conversation. The full transcript is
// replayed into a fresh provider context on every call; no provider-side
// session state exists.
type Turn struct {
	Role Role
	Text string
}

// Client is the provider boundary for chat and skin image analysis.
// Both operations are single-attempt: failures propagate to the caller.
type Client interface {
	// Chat sends one user message with the prior transcript replayed and
	// returns the model's reply text.
	Chat(ctx context.Context, system string, history []Turn, message string) (string, error)
	// AnalyzeImage sends a single JPEG image with an instruction prompt
	// and returns the raw model text.
	AnalyzeImage(ctx context.Context, prompt string, imageJPEG []byte) (string, error)
}

// Config selects and parameterizes the AI provider
type Config struct {
	Provider string // openai or gemini
	APIKey   string
	Model    string
}

// New creates the provider named by cfg.Provider. A missing API key is
// not a construction error: the returned client reports
// ErrAccessNotConfigured on every call so the server can still boot.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Client, error) {
	if cfg.APIKey == "" {
		logger.Warn("AI API key not set, AI-backed endpoints will report access as not configured",
			zap.String("provider", cfg.Provider))
		return &unconfiguredClient{}, nil
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, logger)
	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.Provider)
	}
}

// unconfiguredClient stands in when no API key is configured. Every
// call fails with ErrAccessNotConfigured so callers surface the
// condition per request instead of at boot.
type unconfiguredClient struct{}

func (unconfiguredClient) Chat(ctx context.Context, system string, history []Turn, message string) (string, error) {
	return "", fmt.Errorf("%w: no API key configured", ErrAccessNotConfigured)
}

func (unconfiguredClient) AnalyzeImage(ctx context.Context, prompt string, imageJPEG []byte) (string, error) {
	return "", fmt.Errorf("%w: no API key configured", ErrAccessNotConfigured)
}

// isAccessError reports whether err looks like a credential or access
// problem rather than a transient failure.
func isAccessError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	for _, marker := range []string{
		"401",
		"403",
		"unauthorized",
		"permission",
		"api key",
		"api_key",
		"invalid key",
		"model_not_found",
		"model not found",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}

	return false
}
