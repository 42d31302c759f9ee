package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient implements Client on the Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient creates a new Gemini-backed client
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing Gemini API key", ErrAccessNotConfigured)
	}
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Chat sends one user message with the prior transcript replayed
func (c *GeminiClient) Chat(ctx context.Context, system string, history []Turn, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	return c.generate(ctx, contents, config)
}

// AnalyzeImage sends a single JPEG image with an instruction prompt
func (c *GeminiClient) AnalyzeImage(ctx context.Context, prompt string, imageJPEG []byte) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(imageJPEG, "image/jpeg"),
		genai.NewPartFromText(prompt),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	return c.generate(ctx, contents, nil)
}

// generate performs a single generation request, no retry
func (c *GeminiClient) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	requestStart := time.Now()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		if isAccessError(err) {
			c.logger.Error("Gemini access rejected", zap.Error(err))
			return "", fmt.Errorf("%w: %v", ErrAccessNotConfigured, err)
		}
		return "", fmt.Errorf("generate content request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty content in response")
	}

	if resp.UsageMetadata != nil {
		c.logger.Debug("Gemini token usage",
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("response_tokens", resp.UsageMetadata.CandidatesTokenCount),
			zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount),
			zap.Duration("request_time", time.Since(requestStart)),
		)
	}

	return text, nil
}

// Ensure GeminiClient implements Client
var _ Client = (*GeminiClient)(nil)
