// Package ai talks to the hosted completion endpoint.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/sparklabs/sparkchat/internal/config"
)

const completionTimeout = 60 * time.Second

// Gateway sends single prompts to an OpenAI-compatible completion API and
// returns one reply. Every request is stateless: no conversation history
// is forwarded.
type Gateway struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewGateway builds a gateway from configuration. The base URL override
// lets the same client speak to Groq's OpenAI-compatible endpoint.
func NewGateway(cfg config.AIConfig) (*Gateway, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing completion API key")
	}

	// The orchestrator treats every upstream failure the same way, so the
	// client's built-in retry loop is switched off.
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	)

	return &Gateway{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends one user prompt and returns the first completion's text.
// Network, auth, quota and malformed-response failures all surface as a
// single wrapped error; callers do not retry.
func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	res, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       g.model,
		Temperature: openai.Float(g.temperature),
		MaxTokens:   openai.Int(int64(g.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(res.Choices) == 0 || res.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("completion response contained no content")
	}

	return res.Choices[0].Message.Content, nil
}

// ListModels returns the model identifiers the endpoint advertises. It is
// a startup diagnostic only; failures are for logging, never fatal.
func (g *Gateway) ListModels(ctx context.Context) ([]string, error) {
	page, err := g.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(page.Data))
	for _, model := range page.Data {
		ids = append(ids, model.ID)
	}
	return ids, nil
}
