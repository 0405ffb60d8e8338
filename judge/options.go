/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"fmt"

	"github.com/modelarena/winrate/retry"
)

// DefaultCriterion is the preference criterion used when a suite does not
// provide one.
const DefaultCriterion = "Select the completion that better addresses the conversation: " +
	"more helpful, more accurate, and better grounded in what was actually asked."

// settings holds the configuration shared by all judge backends.
type settings struct {
	model       string
	maxTokens   int64
	temperature float64
	criterion   string
	concurrency int
	retryConfig retry.Config
}

// defaultSettings returns the baseline configuration before options apply.
// The model default is backend-specific and set by each constructor.
func defaultSettings() settings {
	return settings{
		maxTokens:   2048,
		temperature: 0.1, // low temperature for consistent judgments
		criterion:   DefaultCriterion,
		concurrency: 4,
		retryConfig: retry.DefaultConfig(),
	}
}

// Option is a functional option for configuring a judge backend.
type Option func(*settings) error

// WithModel overrides the judge model name.
func WithModel(model string) Option {
	return func(s *settings) error {
		if model == "" {
			return fmt.Errorf("model cannot be empty")
		}
		s.model = model
		return nil
	}
}

// WithMaxTokens sets the maximum tokens for judge responses.
func WithMaxTokens(tokens int64) Option {
	return func(s *settings) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		s.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature for judge responses.
// Lower values produce more consistent judgments.
func WithTemperature(temp float64) Option {
	return func(s *settings) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		s.temperature = temp
		return nil
	}
}

// WithCriterion sets the preference criterion included in every judge prompt.
func WithCriterion(criterion string) Option {
	return func(s *settings) error {
		if criterion == "" {
			return fmt.Errorf("criterion cannot be empty")
		}
		s.criterion = criterion
		return nil
	}
}

// WithConcurrency bounds the number of pairs judged in parallel within one
// batch.
func WithConcurrency(n int) Option {
	return func(s *settings) error {
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		s.concurrency = n
		return nil
	}
}

// WithRetryConfig sets the retry configuration for transient judge API errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *settings) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.retryConfig = cfg
		return nil
	}
}
