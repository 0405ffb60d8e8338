/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs win-rate evaluations of a policy model against a frozen
// reference: it snapshots reference completions once, then periodically
// regenerates policy completions, has an LLM judge pick a winner per pair,
// and publishes the resulting win rate.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"

	"github.com/modelarena/winrate/callback"
	"github.com/modelarena/winrate/dataset"
	"github.com/modelarena/winrate/generation"
	"github.com/modelarena/winrate/judge"
	"github.com/modelarena/winrate/tracker"
)

type config struct {
	// Suite is the path to the YAML evaluation suite.
	Suite string `env:"SUITE,required"`

	// Endpoints serving the policy and reference models (OpenAI-compatible).
	PolicyBaseURL string `env:"POLICY_BASE_URL,required"`
	PolicyAPIKey  string `env:"POLICY_API_KEY"`
	RefBaseURL    string `env:"REF_BASE_URL,required"`
	RefAPIKey     string `env:"REF_API_KEY"`

	// JudgeAPIKey authenticates the judge provider; empty defers to the
	// provider SDK's own environment lookup.
	JudgeAPIKey string `env:"JUDGE_API_KEY"`

	MetricsPort int `env:"METRICS_PORT,default=2112"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	suite, err := loadSuite(cfg.Suite)
	if err != nil {
		clog.FatalContextf(ctx, "loading suite: %v", err)
	}

	ds, err := dataset.LoadFile(suite.Dataset)
	if err != nil {
		clog.FatalContextf(ctx, "loading dataset: %v", err)
	}
	clog.InfoContextf(ctx, "Loaded %d prompts from %s", len(ds), suite.Dataset)

	policy, err := generation.New(cfg.PolicyBaseURL, cfg.PolicyAPIKey, "policy", suite.generationConfig(suite.PolicyModel))
	if err != nil {
		clog.FatalContextf(ctx, "creating policy generator: %v", err)
	}
	ref, err := generation.New(cfg.RefBaseURL, cfg.RefAPIKey, "reference", suite.generationConfig(suite.RefModel))
	if err != nil {
		clog.FatalContextf(ctx, "creating reference generator: %v", err)
	}

	judgeOpts := []judge.Option{judge.WithConcurrency(suite.JudgeConcurrency)}
	if suite.Criterion != "" {
		judgeOpts = append(judgeOpts, judge.WithCriterion(suite.Criterion))
	}
	j, err := judge.New(ctx, suite.JudgeModel, cfg.JudgeAPIKey, judgeOpts...)
	if err != nil {
		clog.FatalContextf(ctx, "creating judge: %v", err)
	}

	tr := tracker.Multi(
		tracker.NewLog(os.Stdout),
		tracker.NewProm(suite.Run),
	)

	cb, err := callback.New(ds, policy, ref, j, tr, callback.WithWorkers(suite.Workers))
	if err != nil {
		clog.FatalContextf(ctx, "creating callback: %v", err)
	}

	// Prometheus scrape endpoint for the win-rate gauges and token counters.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			clog.ErrorContextf(ctx, "metrics server failed: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	clog.InfoContextf(ctx, "Snapshotting reference completions with %s", suite.RefModel)
	if err := cb.OnTrainBegin(ctx); err != nil {
		clog.FatalContextf(ctx, "reference generation failed: %v", err)
	}

	for round := 1; round <= suite.Rounds; round++ {
		if err := cb.OnEvaluate(ctx, int64(round)); err != nil {
			clog.FatalContextf(ctx, "evaluation round %d failed: %v", round, err)
		}

		if round == suite.Rounds {
			break
		}
		select {
		case <-ctx.Done():
			clog.InfoContextf(ctx, "Interrupted after round %d", round)
			return
		case <-time.After(time.Duration(suite.Interval)):
		}
	}

	clog.InfoContextf(ctx, "Completed %d evaluation round(s)", suite.Rounds)
}
