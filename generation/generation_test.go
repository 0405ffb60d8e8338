/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generation

import (
	"testing"

	"github.com/modelarena/winrate/dataset"
	"github.com/modelarena/winrate/retry"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig("qwen2.5-7b-instruct")
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() error = %v, wanted nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{{
		name:   "missing model",
		mutate: func(c *Config) { c.Model = "" },
	}, {
		name:   "non-positive max tokens",
		mutate: func(c *Config) { c.MaxTokens = 0 },
	}, {
		name:   "temperature out of range",
		mutate: func(c *Config) { c.Temperature = 2.5 },
	}, {
		name:   "negative temperature",
		mutate: func(c *Config) { c.Temperature = -0.1 },
	}, {
		name:   "zero top_p",
		mutate: func(c *Config) { c.TopP = 0 },
	}, {
		name:   "top_p above one",
		mutate: func(c *Config) { c.TopP = 1.1 },
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig("m")
			test.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() error = nil, wanted error")
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("m")
	if cfg.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.TopP != 1.0 {
		t.Errorf("TopP = %v, want 1.0", cfg.TopP)
	}
	if cfg.Seed != nil {
		t.Errorf("Seed = %v, want nil", cfg.Seed)
	}
}

func TestToMessages(t *testing.T) {
	t.Run("maps every supported role", func(t *testing.T) {
		conv := dataset.Conversation{
			{Role: dataset.RoleSystem, Content: "You are helpful."},
			{Role: dataset.RoleUser, Content: "Hi"},
			{Role: dataset.RoleAssistant, Content: "Hello!"},
			{Role: dataset.RoleUser, Content: "How are you?"},
		}
		messages, err := toMessages(conv)
		if err != nil {
			t.Fatalf("toMessages() error = %v", err)
		}
		if len(messages) != len(conv) {
			t.Errorf("message count: got = %d, wanted = %d", len(messages), len(conv))
		}
	})

	t.Run("rejects empty conversation", func(t *testing.T) {
		if _, err := toMessages(nil); err == nil {
			t.Error("toMessages() error = nil, wanted error")
		}
	})

	t.Run("rejects unsupported role", func(t *testing.T) {
		conv := dataset.Conversation{{Role: "tool", Content: "output"}}
		if _, err := toMessages(conv); err == nil {
			t.Error("toMessages() error = nil, wanted unsupported role error")
		}
	})
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig("m")

	t.Run("valid", func(t *testing.T) {
		if _, err := New("http://localhost:8000/v1", "", "policy", cfg); err != nil {
			t.Errorf("New() error = %v, wanted nil", err)
		}
	})

	t.Run("missing base URL", func(t *testing.T) {
		if _, err := New("", "", "policy", cfg); err == nil {
			t.Error("New() error = nil, wanted base URL error")
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := cfg
		bad.Model = ""
		if _, err := New("http://localhost:8000/v1", "", "policy", bad); err == nil {
			t.Error("New() error = nil, wanted config error")
		}
	})

	t.Run("invalid retry config", func(t *testing.T) {
		if _, err := New("http://localhost:8000/v1", "", "policy", cfg,
			WithRetryConfig(retry.Config{MaxRetries: -1})); err == nil {
			t.Error("New() error = nil, wanted retry config error")
		}
	})
}
