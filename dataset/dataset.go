/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Conversation roles recognized by the chat formats we target.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single role/content message in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered sequence of turns.
type Conversation []Turn

// WithoutTrailingAssistant returns the conversation with a final assistant
// turn removed, so the model is never shown the gold answer it is supposed
// to produce. Conversations that do not end with an assistant turn are
// returned unchanged.
func (c Conversation) WithoutTrailingAssistant() Conversation {
	if len(c) > 0 && c[len(c)-1].Role == RoleAssistant {
		return c[:len(c)-1]
	}
	return c
}

// Validate checks that every turn has a role and non-empty content.
func (c Conversation) Validate() error {
	if len(c) == 0 {
		return errors.New("conversation has no turns")
	}
	for i, turn := range c {
		switch turn.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("turn %d has unknown role %q", i, turn.Role)
		}
		if strings.TrimSpace(turn.Content) == "" {
			return fmt.Errorf("turn %d has empty content", i)
		}
	}
	return nil
}

// Record is one prompt-dataset entry: the prompt text used when submitting
// pairs to the judge, the full conversation used for generation, and the
// record's position in the dataset.
type Record struct {
	Index        int          `json:"-"`
	Prompt       string       `json:"prompt"`
	Conversation Conversation `json:"chosen"`
}

// Dataset is an ordered collection of prompt records.
type Dataset []Record

// Prompts returns the prompt strings in dataset order.
func (d Dataset) Prompts() []string {
	prompts := make([]string, len(d))
	for i, rec := range d {
		prompts[i] = rec.Prompt
	}
	return prompts
}

// LoadJSONL reads a dataset from JSON-lines input. Each line carries a
// "prompt" string and a "chosen" conversation. Blank lines are skipped.
func LoadJSONL(r io.Reader) (Dataset, error) {
	var ds Dataset

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: decoding record: %w", line, err)
		}
		if err := rec.Conversation.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Prompt == "" {
			// Fall back to the last non-assistant turn so judge prompts are
			// never empty for datasets that omit the prompt column.
			for i := len(rec.Conversation) - 1; i >= 0; i-- {
				if rec.Conversation[i].Role != RoleAssistant {
					rec.Prompt = rec.Conversation[i].Content
					break
				}
			}
		}

		rec.Index = len(ds)
		ds = append(ds, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	return ds, nil
}

// LoadFile reads a JSONL dataset from disk.
func LoadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return LoadJSONL(f)
}
