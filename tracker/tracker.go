/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tracker is the experiment-tracking sink for evaluation results.
// Trackers receive scalar metrics keyed by evaluation step; trackers that
// additionally implement TableLogger receive rich generation tables. Table
// entries are ephemeral by contract: implementations forward or render them
// but never retain them, so no log history ever needs scrubbing afterwards.
package tracker

import "context"

// Tracker logs scalar metrics for an evaluation step.
type Tracker interface {
	// LogMetrics records the given metrics at the given step.
	LogMetrics(ctx context.Context, step int64, values map[string]float64) error
}

// TableLogger is the optional capability of logging a generations table for
// inspection. Whether a tracker has this capability is resolved once at
// construction time by the caller, not checked per evaluation event.
type TableLogger interface {
	// LogTable records the named table at the given step without retaining it.
	LogTable(ctx context.Context, step int64, name string, table *Table) error
}

// multi fans metrics and tables out to several trackers.
type multi struct {
	trackers []Tracker
}

// Multi combines trackers into one. Tables are forwarded to every tracker
// that implements TableLogger.
func Multi(trackers ...Tracker) Tracker {
	return &multi{trackers: trackers}
}

// LogMetrics implements Tracker.
func (m *multi) LogMetrics(ctx context.Context, step int64, values map[string]float64) error {
	for _, t := range m.trackers {
		if err := t.LogMetrics(ctx, step, values); err != nil {
			return err
		}
	}
	return nil
}

// LogTable implements TableLogger.
func (m *multi) LogTable(ctx context.Context, step int64, name string, table *Table) error {
	for _, t := range m.trackers {
		if tl, ok := t.(TableLogger); ok {
			if err := tl.LogTable(ctx, step, name, table); err != nil {
				return err
			}
		}
	}
	return nil
}
