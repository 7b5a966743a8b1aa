package ai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ashorokhov/boltun/internal/config"
)

// openAIClient implements Client against any OpenAI-compatible chat
// completions endpoint.
type openAIClient struct {
	client      openaigo.Client
	log         *slog.Logger
	model       string
	temperature float32
	maxTokens   int
}

func newOpenAIClient(cfg config.AIConfig, log *slog.Logger) Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Token),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}

	return &openAIClient{
		client:      openaigo.NewClient(opts...),
		log:         log.With("component", "openai_client"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (c *openAIClient) Generate(ctx context.Context, prompt []Message) (string, error) {
	messages := make([]openaigo.ChatCompletionMessageParamUnion, 0, len(prompt))
	for _, m := range prompt {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openaigo.SystemMessage(m.Content))
		case RoleAssistant:
			messages = append(messages, openaigo.AssistantMessage(m.Content))
		default:
			messages = append(messages, openaigo.UserMessage(m.Content))
		}
	}

	params := openaigo.ChatCompletionNewParams{
		Model:       openaigo.ChatModel(c.model),
		Messages:    messages,
		Temperature: openaigo.Float(float64(c.temperature)),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openaigo.Int(int64(c.maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", c.classify(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyResponse
	}

	c.log.DebugContext(ctx, "Generated reply",
		"prompt_messages", len(prompt),
		"completion_tokens", resp.Usage.CompletionTokens)
	return reply, nil
}

// classify maps transport and API errors to the package's typed failures.
func (c *openAIClient) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}

	var apiErr *openaigo.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			c.log.WarnContext(ctx, "OpenAI rate limit hit", "error", err)
			return ErrRateLimited
		case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
			c.log.ErrorContext(ctx, "OpenAI rejected request", "error", err)
			return ErrInvalidRequest
		}
	}

	c.log.ErrorContext(ctx, "OpenAI call failed", "error", err)
	return err
}
