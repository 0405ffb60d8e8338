/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package callback implements the win-rate evaluation callback: it snapshots
// reference completions when a training run begins, regenerates policy
// completions at each evaluation event, submits the pairs to a pairwise
// judge, and reduces the judgments to a win-rate metric for the experiment
// tracker.
package callback

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"

	"github.com/modelarena/winrate/dataset"
	"github.com/modelarena/winrate/generation"
	"github.com/modelarena/winrate/judge"
	"github.com/modelarena/winrate/shard"
	"github.com/modelarena/winrate/tracker"
)

// GenerationsTableName is the tracker key for the per-prompt generations table.
const GenerationsTableName = "winrate_generations"

// Columns of the generations table.
var tableColumns = []string{"Prompt", "Policy", "Ref Model", "Chosen index"}

// Callback estimates the win rate of a policy model against a frozen
// reference. OnTrainBegin and OnEvaluate are invoked by the host run loop
// and are not safe for concurrent use; the run loop calls them sequentially.
type Callback struct {
	ds      dataset.Dataset
	policy  generation.Interface
	ref     generation.Interface
	judge   judge.Interface
	tracker tracker.Tracker
	// tables is resolved once at construction; nil means the tracker has no
	// table capability and the generations table is skipped entirely.
	tables  tracker.TableLogger
	workers int

	// refCompletions is index-aligned with ds, written once by OnTrainBegin.
	refCompletions []string
}

// New creates a win-rate callback. The policy generator must point at the
// model under training and the ref generator at the frozen reference; both
// should share one generation config so pairs are sampled identically.
func New(ds dataset.Dataset, policy, ref generation.Interface, j judge.Interface, tr tracker.Tracker, opts ...Option) (*Callback, error) {
	if policy == nil || ref == nil {
		return nil, errors.New("policy and ref generators are required")
	}
	if j == nil {
		return nil, errors.New("judge is required")
	}
	if tr == nil {
		return nil, errors.New("tracker is required")
	}

	cb := &Callback{
		ds:      ds,
		policy:  policy,
		ref:     ref,
		judge:   j,
		tracker: tr,
		workers: 1,
	}

	// Optional table capability, resolved once instead of per event.
	if tl, ok := tr.(tracker.TableLogger); ok {
		cb.tables = tl
	}

	for _, opt := range opts {
		if err := opt(cb); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return cb, nil
}

// OnTrainBegin generates and records the reference completions, one per
// dataset record, using the frozen reference model. It runs once per run;
// calling it again regenerates the snapshot.
func (c *Callback) OnTrainBegin(ctx context.Context) error {
	log := clog.FromContext(ctx)
	start := time.Now()

	completions, err := c.generateAll(ctx, c.ref)
	if err != nil {
		return fmt.Errorf("generating reference completions: %w", err)
	}

	c.refCompletions = completions
	log.With("prompts", len(c.ds)).
		With("duration", time.Since(start)).
		Info("Recorded reference completions")
	return nil
}

// OnEvaluate regenerates policy completions for every prompt, judges each
// against the reference completion at the same index, and logs the win rate
// (and, when the tracker supports it, a generations table) at the given step.
func (c *Callback) OnEvaluate(ctx context.Context, step int64) error {
	log := clog.FromContext(ctx)
	start := time.Now()

	if c.refCompletions == nil {
		return errors.New("no reference completions: OnTrainBegin has not run")
	}

	policyCompletions, err := c.generateAll(ctx, c.policy)
	if err != nil {
		return fmt.Errorf("generating policy completions: %w", err)
	}

	results, err := c.judgeAll(ctx, policyCompletions)
	if err != nil {
		return fmt.Errorf("judging completions: %w", err)
	}

	wins := countWins(results)
	winRate := WinRate(results)

	log.With("step", step).
		With("win_rate", winRate).
		With("pairs", len(results)).
		With("duration", time.Since(start)).
		Info("Win-rate evaluation complete")

	if err := c.tracker.LogMetrics(ctx, step, map[string]float64{
		"win_rate":     winRate,
		"policy_wins":  float64(wins),
		"judged_pairs": float64(len(results)),
	}); err != nil {
		return fmt.Errorf("logging metrics: %w", err)
	}

	if c.tables != nil {
		table := tracker.NewTable(tableColumns...)
		for i, rec := range c.ds {
			if err := table.Append(rec.Prompt, policyCompletions[i], c.refCompletions[i], strconv.Itoa(results[i])); err != nil {
				return fmt.Errorf("building generations table: %w", err)
			}
		}
		if err := c.tables.LogTable(ctx, step, GenerationsTableName, table); err != nil {
			return fmt.Errorf("logging generations table: %w", err)
		}
	}

	return nil
}

// generateAll produces one completion per dataset record with the given
// generator, splitting the dataset into padded worker shards, generating
// sequentially within each shard, then gathering in dataset order and
// truncating the padding. The result is index-aligned with the dataset.
func (c *Callback) generateAll(ctx context.Context, gen generation.Interface) ([]string, error) {
	shards, err := shard.Split(c.ds, c.workers)
	if err != nil {
		return nil, err
	}

	completions := make([][]string, len(shards))

	g, ctx := errgroup.WithContext(ctx)
	for w, sh := range shards {
		g.Go(func() error {
			out := make([]string, 0, len(sh))
			for _, rec := range sh {
				// Never show the model the gold answer it is judged against.
				conv := rec.Conversation.WithoutTrailingAssistant()
				text, err := gen.Generate(ctx, conv)
				if err != nil {
					return fmt.Errorf("prompt %d: %w", rec.Index, err)
				}
				out = append(out, text)
			}
			completions[w] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gathered, err := shard.Gather(completions)
	if err != nil {
		return nil, err
	}
	return shard.Truncate(gathered, len(c.ds)), nil
}

// judgeAll pairs policy completions with the reference snapshot and submits
// per-worker batches to the judge. Pairing is strictly positional: pair i is
// (policy[i], ref[i]) for prompt i, with the policy always first.
func (c *Callback) judgeAll(ctx context.Context, policyCompletions []string) ([]int, error) {
	promptShards, err := shard.Split(c.ds.Prompts(), c.workers)
	if err != nil {
		return nil, err
	}
	policyShards, err := shard.Split(policyCompletions, c.workers)
	if err != nil {
		return nil, err
	}
	refShards, err := shard.Split(c.refCompletions, c.workers)
	if err != nil {
		return nil, err
	}

	results := make([][]int, len(promptShards))

	g, ctx := errgroup.WithContext(ctx)
	for w := range promptShards {
		g.Go(func() error {
			pairs := make([][2]string, len(promptShards[w]))
			for i := range pairs {
				pairs[i] = [2]string{policyShards[w][i], refShards[w][i]}
			}
			indices, err := c.judge.Judge(ctx, promptShards[w], pairs)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			if len(indices) != len(pairs) {
				return fmt.Errorf("worker %d: judge returned %d results for %d pairs", w, len(indices), len(pairs))
			}
			results[w] = indices
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gathered, err := shard.Gather(results)
	if err != nil {
		return nil, err
	}
	return shard.Truncate(gathered, len(c.ds)), nil
}

// WinRate computes the fraction of judgments that preferred the policy
// completion (index 0). An empty result set yields 0.0 rather than dividing
// by zero.
func WinRate(results []int) float64 {
	if len(results) == 0 {
		return 0.0
	}
	return float64(countWins(results)) / float64(len(results))
}

// countWins counts judgments that preferred the policy completion. Both the
// win rate and the logged win count derive from this one predicate.
func countWins(results []int) int {
	wins := 0
	for _, r := range results {
		if r == 0 {
			wins++
		}
	}
	return wins
}
