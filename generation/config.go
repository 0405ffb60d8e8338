/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generation

import "fmt"

// Config carries the sampling parameters applied to every completion a
// generator produces. The same config is used for the reference snapshot and
// for policy completions so the two sides of each judged pair are sampled
// identically.
type Config struct {
	// Model is the served model name requested from the endpoint.
	Model string `yaml:"model"`
	// MaxTokens bounds the length of the generated continuation.
	MaxTokens int64 `yaml:"max_tokens"`
	// Temperature is the sampling temperature.
	Temperature float64 `yaml:"temperature"`
	// TopP is the nucleus sampling parameter.
	TopP float64 `yaml:"top_p"`
	// Seed, when set, requests deterministic sampling from the endpoint.
	Seed *int64 `yaml:"seed,omitempty"`
}

// DefaultConfig returns the sampling parameters used when a suite does not
// override them.
func DefaultConfig(model string) Config {
	return Config{
		Model:       model,
		MaxTokens:   1024,
		Temperature: 0.7,
		TopP:        1.0,
	}
}

// Validate checks the config for values the serving endpoints would reject.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", c.Temperature)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be in (0.0, 1.0], got %f", c.TopP)
	}
	return nil
}
