/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package generation produces text completions for prompt conversations
// from models served behind OpenAI-compatible chat-completions endpoints
// (vLLM-style serving).
package generation

import (
	"context"

	"github.com/modelarena/winrate/dataset"
)

// Interface is the contract for completion generators. Generate returns
// only the newly generated continuation for the conversation, never the
// conversation text itself.
type Interface interface {
	Generate(ctx context.Context, conv dataset.Conversation) (string, error)
}
