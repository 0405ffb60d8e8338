/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// pairJudger evaluates a single prompt/pair combination.
type pairJudger func(ctx context.Context, prompt string, pair [2]string) (*Verdict, error)

// judgeBatch fans a batch of pairs out over judgeOne with bounded
// concurrency. Results are positional: result i is the preference index for
// pair i. Any pair failure fails the whole batch.
func judgeBatch(ctx context.Context, judgeOne pairJudger, prompts []string, pairs [][2]string, concurrency int) ([]int, error) {
	if len(prompts) != len(pairs) {
		return nil, fmt.Errorf("got %d prompts but %d completion pairs", len(prompts), len(pairs))
	}

	results := make([]int, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range pairs {
		g.Go(func() error {
			verdict, err := judgeOne(ctx, prompts[i], pairs[i])
			if err != nil {
				return fmt.Errorf("judging pair %d: %w", i, err)
			}
			if verdict == nil {
				return fmt.Errorf("judging pair %d: judge returned no verdict", i)
			}
			if err := verdict.validate(); err != nil {
				return fmt.Errorf("judging pair %d: %w", i, err)
			}
			clog.FromContext(ctx).With("pair", i).
				With("verdict", verdict.String()).
				Debug("Judged completion pair")
			results[i] = verdict.PreferredIndex
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
