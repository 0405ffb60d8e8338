/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callback

import "fmt"

// Option is a functional option for configuring the callback.
type Option func(*Callback) error

// WithWorkers sets the number of parallel worker shards the dataset is
// split across for generation and judging. Defaults to 1.
func WithWorkers(n int) Option {
	return func(c *Callback) error {
		if n <= 0 {
			return fmt.Errorf("workers must be positive, got %d", n)
		}
		c.workers = n
		return nil
	}
}

// WithoutTables disables the generations table even when the tracker
// implements the table capability.
func WithoutTables() Option {
	return func(c *Callback) error {
		c.tables = nil
		return nil
	}
}
