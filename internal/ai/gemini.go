package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/ashorokhov/boltun/internal/config"
)

// geminiClient implements Client on top of the Gemini API.
type geminiClient struct {
	client      *genai.Client
	log         *slog.Logger
	model       string
	temperature float32
	maxTokens   int
}

func newGeminiClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (Client, error) {
	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiClient{
		client:      gi,
		log:         log.With("component", "gemini_client"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *geminiClient) Generate(ctx context.Context, prompt []Message) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: &c.temperature,
	}
	if c.maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(c.maxTokens)
	}

	var contents []*genai.Content
	for _, m := range prompt {
		switch m.Role {
		case RoleSystem:
			// Gemini takes system text as a config field, not a turn.
			var existing string
			if genCfg.SystemInstruction != nil && len(genCfg.SystemInstruction.Parts) > 0 {
				existing = genCfg.SystemInstruction.Parts[0].Text + "\n"
			}
			genCfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: existing + m.Content}},
			}
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", c.classify(ctx, err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", ErrEmptyResponse
	}

	c.log.DebugContext(ctx, "Generated reply", "prompt_messages", len(prompt))
	return reply, nil
}

func (c *geminiClient) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			c.log.WarnContext(ctx, "Gemini rate limit hit", "error", err)
			return ErrRateLimited
		case http.StatusBadRequest, http.StatusNotFound:
			c.log.ErrorContext(ctx, "Gemini rejected request", "error", err)
			return ErrInvalidRequest
		}
	}

	c.log.ErrorContext(ctx, "Gemini call failed", "error", err)
	return err
}
