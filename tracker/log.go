/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tracker

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/chainguard-dev/clog"
)

// logTracker logs metrics through the context logger and renders tables to
// a writer. Tables are written and discarded, never retained.
type logTracker struct {
	tableOut io.Writer
}

// NewLog creates a tracker that logs metrics via clog. When tableOut is
// non-nil the tracker also implements TableLogger, rendering tables there.
func NewLog(tableOut io.Writer) Tracker {
	if tableOut == nil {
		return &logTracker{}
	}
	return &logTableTracker{logTracker{tableOut: tableOut}}
}

// LogMetrics implements Tracker.
func (l *logTracker) LogMetrics(ctx context.Context, step int64, values map[string]float64) error {
	log := clog.FromContext(ctx).With("step", step)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		log = log.With(k, values[k])
	}
	log.Info("Evaluation metrics")
	return nil
}

// logTableTracker wraps logTracker with the TableLogger capability. The
// split keeps a NewLog(nil) tracker from spuriously satisfying TableLogger
// type assertions.
type logTableTracker struct {
	logTracker
}

// LogTable implements TableLogger.
func (l *logTableTracker) LogTable(ctx context.Context, step int64, name string, table *Table) error {
	if _, err := fmt.Fprintf(l.tableOut, "\n%s (step %d)\n", name, step); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if err := table.Render(l.tableOut); err != nil {
		return fmt.Errorf("rendering table %q: %w", name, err)
	}
	_, err := fmt.Fprintln(l.tableOut)
	return err
}
