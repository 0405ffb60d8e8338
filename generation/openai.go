/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/modelarena/winrate/dataset"
	"github.com/modelarena/winrate/metrics"
	"github.com/modelarena/winrate/retry"
)

// client generates completions from an OpenAI-compatible chat-completions
// endpoint.
type client struct {
	api          openai.Client
	cfg          Config
	role         string
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

// New creates a generator for the endpoint at baseURL. The role label
// ("policy" or "reference") distinguishes the two sides of each judged pair
// in logs and metrics.
func New(baseURL, apiKey, role string, cfg Config, opts ...Option) (Interface, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation config: %w", err)
	}

	reqOpts := []option.RequestOption{option.WithBaseURL(baseURL)}
	if apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	}

	c := &client{
		api:          openai.NewClient(reqOpts...),
		cfg:          cfg,
		role:         role,
		retryConfig:  retry.DefaultConfig(),
		genaiMetrics: metrics.NewGenAI("modelarena.winrate"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return c, nil
}

// Generate implements Interface.
func (c *client) Generate(ctx context.Context, conv dataset.Conversation) (string, error) {
	log := clog.FromContext(ctx)

	messages, err := toMessages(conv)
	if err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.cfg.Model),
		Messages:    messages,
		MaxTokens:   openai.Int(c.cfg.MaxTokens),
		Temperature: openai.Float(c.cfg.Temperature),
		TopP:        openai.Float(c.cfg.TopP),
	}
	if c.cfg.Seed != nil {
		params.Seed = openai.Int(*c.cfg.Seed)
	}

	completion, err := retry.WithBackoff(ctx, c.retryConfig, "chat_completion", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return c.api.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return "", fmt.Errorf("generating completion from %s model: %w", c.role, err)
	}

	if completion.Usage.PromptTokens > 0 || completion.Usage.CompletionTokens > 0 {
		c.genaiMetrics.RecordTokens(ctx, c.cfg.Model, c.role, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	text := completion.Choices[0].Message.Content
	log.With("model", c.cfg.Model).
		With("role", c.role).
		With("completion_length", len(text)).
		Debug("Generated completion")

	return text, nil
}

// toMessages converts a conversation to the endpoint's chat message params.
// The chat template itself is applied server-side by the serving endpoint.
func toMessages(conv dataset.Conversation) ([]openai.ChatCompletionMessageParamUnion, error) {
	if len(conv) == 0 {
		return nil, errors.New("conversation has no turns")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(conv))
	for i, turn := range conv {
		switch turn.Role {
		case dataset.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Content))
		case dataset.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Content))
		case dataset.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			return nil, fmt.Errorf("turn %d has unsupported role %q", i, turn.Role)
		}
	}
	return messages, nil
}

// isRetryableOpenAIError reports whether an error from the endpoint is a
// rate limit or transient server error worth retrying.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
