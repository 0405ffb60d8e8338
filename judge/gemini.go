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

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"github.com/modelarena/winrate/metrics"
	"github.com/modelarena/winrate/result"
	"github.com/modelarena/winrate/retry"
)

// gemini implements Interface using Google Gemini.
type gemini struct {
	client       *genai.Client
	settings     settings
	config       *genai.GenerateContentConfig
	genaiMetrics *metrics.GenAI
}

// NewGemini creates a new Gemini judge instance. An empty apiKey defers to
// the SDK's GEMINI_API_KEY environment lookup.
func NewGemini(ctx context.Context, apiKey string, opts ...Option) (Interface, error) {
	s := defaultSettings()
	s.model = "gemini-2.5-flash"

	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if !strings.HasPrefix(strings.ToLower(s.model), "gemini-") {
		return nil, fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", s.model)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Structured JSON output keyed to the verdict shape.
	responseSchema := &genai.Schema{
		Type: "object",
		Properties: map[string]*genai.Schema{
			"preferred_index": {
				Type:        "integer",
				Description: "0 if the first completion is better, 1 if the second is better",
			},
			"reasoning": {
				Type:        "string",
				Description: "Explanation of the preference",
			},
		},
		Required: []string{"preferred_index", "reasoning"},
	}

	temperature := float32(s.temperature)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  int32(s.maxTokens),
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}

	return &gemini{
		client:       client,
		settings:     s,
		config:       config,
		genaiMetrics: metrics.NewGenAI("modelarena.winrate"),
	}, nil
}

// Judge implements Interface.
func (g *gemini) Judge(ctx context.Context, prompts []string, pairs [][2]string) ([]int, error) {
	return judgeBatch(ctx, g.judgeOne, prompts, pairs, g.settings.concurrency)
}

// judgeOne submits a single pair to Gemini and parses the verdict.
func (g *gemini) judgeOne(ctx context.Context, prompt string, pair [2]string) (*Verdict, error) {
	log := clog.FromContext(ctx)

	text, err := buildPairwisePrompt(prompt, pair, g.settings.criterion)
	if err != nil {
		return nil, fmt.Errorf("building judge prompt: %w", err)
	}

	response, err := retry.WithBackoff(ctx, g.settings.retryConfig, "judge_generate", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.settings.model, genai.Text(text), g.config)
	})
	if err != nil {
		return nil, fmt.Errorf("calling Gemini judge: %w", err)
	}

	if response.UsageMetadata != nil {
		g.genaiMetrics.RecordTokens(ctx, g.settings.model, "judge",
			int64(response.UsageMetadata.PromptTokenCount), int64(response.UsageMetadata.CandidatesTokenCount))
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return nil, errors.New("no content generated by Gemini judge")
	}

	var responseText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			responseText = part.Text
		}
	}
	if responseText == "" {
		return nil, errors.New("no text content in Gemini's response")
	}

	verdict, err := result.Extract[*Verdict](responseText)
	if err != nil {
		log.With("response", responseText).
			With("error", err).
			Error("Failed to parse Gemini verdict")
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}
	if verdict == nil {
		// A bare "null" reply unmarshals cleanly into a nil pointer.
		return nil, errors.New("Gemini judge returned a null verdict")
	}

	return verdict, nil
}

// isRetryableGeminiError reports rate limit, quota exhaustion, and transient
// server errors from the Gemini API.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}
