/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package generation

import "github.com/modelarena/winrate/retry"

// Option is a functional option for configuring the generator.
type Option func(*client) error

// WithRetryConfig sets the retry configuration for transient endpoint
// errors, principally 429 rate limits during large generation batches.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *client) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.retryConfig = cfg
		return nil
	}
}
