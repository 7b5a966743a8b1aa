package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ashorokhov/boltun/internal/config"
)

// NewClient creates a Client for the backend named in the configuration.
func NewClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Client, error) {
	slog.Info("Initializing AI client", "backend", cfg.Backend, "model", cfg.Model)

	switch cfg.Backend {
	case "openai":
		return newOpenAIClient(cfg, log), nil
	case "gemini":
		client, err := newGeminiClient(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown AI backend: %s", cfg.Backend)
	}
}
