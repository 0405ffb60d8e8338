/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tracker_test

import (
	"context"
	"strings"
	"testing"

	"github.com/modelarena/winrate/tracker"
)

// capture records every metrics call it receives.
type capture struct {
	calls  int
	tables int
}

func (c *capture) LogMetrics(context.Context, int64, map[string]float64) error {
	c.calls++
	return nil
}

// tableCapture adds the table capability.
type tableCapture struct {
	capture
}

func (c *tableCapture) LogTable(context.Context, int64, string, *tracker.Table) error {
	c.tables++
	return nil
}

func TestTable(t *testing.T) {
	t.Run("append and len", func(t *testing.T) {
		table := tracker.NewTable("Prompt", "Policy", "Ref Model", "Chosen index")
		if err := table.Append("p", "a", "b", "0"); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if got := table.Len(); got != 1 {
			t.Errorf("Len(): got = %d, wanted = 1", got)
		}
	})

	t.Run("cell count must match columns", func(t *testing.T) {
		table := tracker.NewTable("a", "b")
		if err := table.Append("only one"); err == nil {
			t.Error("Append() error = nil, wanted cell count error")
		}
	})

	t.Run("render includes headers and cells", func(t *testing.T) {
		table := tracker.NewTable("Prompt", "Chosen index")
		if err := table.Append("What is 2+2?", "0"); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		var sb strings.Builder
		if err := table.Render(&sb); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		out := sb.String()
		for _, fragment := range []string{"Prompt", "Chosen index", "What is 2+2?", "0"} {
			if !strings.Contains(out, fragment) {
				t.Errorf("rendered table missing %q:\n%s", fragment, out)
			}
		}
	})
}

func TestNewLog(t *testing.T) {
	ctx := context.Background()

	t.Run("metrics log without error", func(t *testing.T) {
		tr := tracker.NewLog(nil)
		err := tr.LogMetrics(ctx, 1, map[string]float64{"win_rate": 0.5, "judged_pairs": 2})
		if err != nil {
			t.Errorf("LogMetrics() error = %v", err)
		}
	})

	t.Run("nil writer has no table capability", func(t *testing.T) {
		tr := tracker.NewLog(nil)
		if _, ok := tr.(tracker.TableLogger); ok {
			t.Error("NewLog(nil) implements TableLogger, wanted metrics only")
		}
	})

	t.Run("writer enables table rendering", func(t *testing.T) {
		var sb strings.Builder
		tr := tracker.NewLog(&sb)
		tl, ok := tr.(tracker.TableLogger)
		if !ok {
			t.Fatal("NewLog(writer) does not implement TableLogger")
		}

		table := tracker.NewTable("Prompt", "Chosen index")
		if err := table.Append("alpha", "1"); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := tl.LogTable(ctx, 42, "winrate_generations", table); err != nil {
			t.Fatalf("LogTable() error = %v", err)
		}

		out := sb.String()
		for _, fragment := range []string{"winrate_generations", "step 42", "alpha"} {
			if !strings.Contains(out, fragment) {
				t.Errorf("table output missing %q:\n%s", fragment, out)
			}
		}
	})
}

func TestMulti(t *testing.T) {
	ctx := context.Background()

	t.Run("metrics fan out to every tracker", func(t *testing.T) {
		a, b := &capture{}, &tableCapture{}
		tr := tracker.Multi(a, b)
		if err := tr.LogMetrics(ctx, 1, map[string]float64{"win_rate": 1.0}); err != nil {
			t.Fatalf("LogMetrics() error = %v", err)
		}
		if a.calls != 1 || b.calls != 1 {
			t.Errorf("metrics calls: got = %d/%d, wanted = 1/1", a.calls, b.calls)
		}
	})

	t.Run("tables reach only capable trackers", func(t *testing.T) {
		a, b := &capture{}, &tableCapture{}
		tr := tracker.Multi(a, b)
		tl, ok := tr.(tracker.TableLogger)
		if !ok {
			t.Fatal("Multi() does not implement TableLogger")
		}
		if err := tl.LogTable(ctx, 1, "winrate_generations", tracker.NewTable("a")); err != nil {
			t.Fatalf("LogTable() error = %v", err)
		}
		if b.tables != 1 {
			t.Errorf("table calls: got = %d, wanted = 1", b.tables)
		}
	})
}

func TestNewProm(t *testing.T) {
	tr := tracker.NewProm("test-run")
	for step := int64(1); step <= 2; step++ {
		err := tr.LogMetrics(context.Background(), step, map[string]float64{
			"win_rate":     0.25 * float64(step),
			"judged_pairs": 4,
		})
		if err != nil {
			t.Fatalf("LogMetrics() error = %v", err)
		}
	}
}
