/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"

	"github.com/modelarena/winrate/metrics"
	"github.com/modelarena/winrate/result"
	"github.com/modelarena/winrate/retry"
)

// claude implements Interface using Claude via the Anthropic API.
type claude struct {
	client       anthropic.Client
	settings     settings
	genaiMetrics *metrics.GenAI
}

// NewClaude creates a new Claude judge instance. An empty apiKey defers to
// the SDK's ANTHROPIC_API_KEY environment lookup.
func NewClaude(_ context.Context, apiKey string, opts ...Option) (Interface, error) {
	s := defaultSettings()
	s.model = "claude-sonnet-4-5"

	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if !strings.HasPrefix(strings.ToLower(s.model), "claude-") {
		return nil, fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", s.model)
	}

	var clientOpts []option.RequestOption
	if apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(apiKey))
	}

	return &claude{
		client:       anthropic.NewClient(clientOpts...),
		settings:     s,
		genaiMetrics: metrics.NewGenAI("modelarena.winrate"),
	}, nil
}

// Judge implements Interface.
func (c *claude) Judge(ctx context.Context, prompts []string, pairs [][2]string) ([]int, error) {
	return judgeBatch(ctx, c.judgeOne, prompts, pairs, c.settings.concurrency)
}

// judgeOne submits a single pair to Claude and parses the verdict.
func (c *claude) judgeOne(ctx context.Context, prompt string, pair [2]string) (*Verdict, error) {
	log := clog.FromContext(ctx)

	text, err := buildPairwisePrompt(prompt, pair, c.settings.criterion)
	if err != nil {
		return nil, fmt.Errorf("building judge prompt: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.settings.model),
		MaxTokens:   c.settings.maxTokens,
		Temperature: anthropic.Float(c.settings.temperature),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(text),
			},
		}},
	}

	message, err := retry.WithBackoff(ctx, c.settings.retryConfig, "judge_message", isRetryableClaudeError, func() (*anthropic.Message, error) {
		return c.client.Messages.New(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("calling Claude judge: %w", err)
	}

	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		c.genaiMetrics.RecordTokens(ctx, c.settings.model, "judge", message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	var responseText string
	for _, content := range message.Content {
		if content.Type == "text" {
			responseText = content.Text
		}
	}
	if responseText == "" {
		return nil, errors.New("no text content in Claude's response")
	}

	verdict, err := result.Extract[*Verdict](responseText)
	if err != nil {
		log.With("response", responseText).
			With("error", err).
			Error("Failed to parse Claude verdict")
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}
	if verdict == nil {
		// A bare "null" reply unmarshals cleanly into a nil pointer.
		return nil, errors.New("Claude judge returned a null verdict")
	}

	return verdict, nil
}

// isRetryableClaudeError reports rate limit, overloaded, and transient
// server errors from the Anthropic API.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
