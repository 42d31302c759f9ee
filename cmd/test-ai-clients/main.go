package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"

	"go.uber.org/zap"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/ai"
)

// Smoke tool for the AI provider clients. Exercises a chat turn with
// history replay and a single-image analysis against live credentials.
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	provider := os.Getenv("AI_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}
	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		logger.Fatal("Missing AI credentials. Set AI_API_KEY (and optionally AI_PROVIDER, AI_MODEL)")
	}

	ctx := context.Background()

	client, err := ai.New(ctx, ai.Config{
		Provider: provider,
		APIKey:   apiKey,
		Model:    os.Getenv("AI_MODEL"),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create AI client", zap.Error(err))
	}

	logger.Info("=== Testing chat completion ===", zap.String("provider", provider))
	if err := testChat(ctx, client, logger); err != nil {
		logger.Error("Chat test failed", zap.Error(err))
	} else {
		logger.Info("Chat test passed")
	}

	logger.Info("=== Testing image analysis ===")
	if err := testAnalyze(ctx, client, logger); err != nil {
		logger.Error("Image analysis test failed", zap.Error(err))
	} else {
		logger.Info("Image analysis test passed")
	}

	logger.Info("=== All tests completed ===")
}

func testChat(ctx context.Context, client ai.Client, logger *zap.Logger) error {
	history := []ai.Turn{
		{Role: ai.RoleUser, Text: "Halo! Namaku Sari."},
		{Role: ai.RoleModel, Text: "Hai Sari! Ada yang bisa Glowy bantu soal skincare?"},
	}

	response, err := client.Chat(ctx,
		"You are Glowy, a friendly skincare assistant. Answer in one short sentence.",
		history,
		"Siapa namaku tadi?",
	)
	if err != nil {
		return fmt.Errorf("chat completion failed: %w", err)
	}

	logger.Info("Chat response received",
		zap.String("response", response),
		zap.Int("response_length", len(response)),
	)

	return nil
}

func testAnalyze(ctx context.Context, client ai.Client, logger *zap.Logger) error {
	// A flat skin-tone test card keeps the request small
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	tone := color.RGBA{R: 224, G: 172, B: 105, A: 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, tone)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return fmt.Errorf("failed to encode test image: %w", err)
	}

	response, err := client.AnalyzeImage(ctx,
		"Describe this image in one short sentence.",
		buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("image analysis failed: %w", err)
	}

	logger.Info("Analysis response received",
		zap.String("response", response),
		zap.Int("image_bytes", buf.Len()),
	)

	return nil
}
