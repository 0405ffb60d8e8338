/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"
	"strings"
)

// Verdict is the structured decision a judge model returns for one
// completion pair.
type Verdict struct {
	// PreferredIndex selects the winning completion: 0 for the first
	// (policy) completion, 1 for the second (reference).
	PreferredIndex int `json:"preferred_index" jsonschema:"required,description=0 if the first completion is better; 1 if the second completion is better"`

	// Reasoning explains the preference.
	Reasoning string `json:"reasoning" jsonschema:"required,description=Brief explanation of why the preferred completion is better"`
}

// String returns a formatted representation of the verdict.
func (v *Verdict) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Preferred: %d", v.PreferredIndex))
	if v.Reasoning != "" {
		sb.WriteString(fmt.Sprintf(" - %s", v.Reasoning))
	}
	return sb.String()
}

// validate rejects verdicts whose index does not select either completion.
func (v *Verdict) validate() error {
	if v.PreferredIndex != 0 && v.PreferredIndex != 1 {
		return fmt.Errorf("preferred index must be 0 or 1, got %d", v.PreferredIndex)
	}
	return nil
}

// Interface is the contract for pairwise judges: given parallel sequences
// of prompts and completion pairs, return one preference index (0 or 1) per
// pair, in input order.
type Interface interface {
	Judge(ctx context.Context, prompts []string, pairs [][2]string) ([]int, error)
}

// New creates a judge backed by the provider the model name implies.
// Claude models use the Anthropic SDK, Gemini models use Google's GenAI SDK.
// An empty apiKey defers to the provider SDK's environment lookup.
func New(ctx context.Context, modelName, apiKey string, opts ...Option) (Interface, error) {
	modelLower := strings.ToLower(modelName)

	if strings.HasPrefix(modelLower, "claude-") {
		return NewClaude(ctx, apiKey, append(opts, WithModel(modelName))...)
	}

	if strings.HasPrefix(modelLower, "gemini-") {
		return NewGemini(ctx, apiKey, append(opts, WithModel(modelName))...)
	}

	return nil, fmt.Errorf("unsupported judge model: %s (expected claude-* or gemini-*)", modelName)
}
