/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/modelarena/winrate/generation"
)

// Suite describes one evaluation run: which models face off, over which
// prompt dataset, judged how, and how often.
type Suite struct {
	// Run names the experiment in metrics and logs.
	Run string `yaml:"run"`

	// Dataset is the path to the JSONL prompt dataset.
	Dataset string `yaml:"dataset"`

	// PolicyModel and RefModel are the served model names requested from the
	// policy and reference endpoints.
	PolicyModel string `yaml:"policy_model"`
	RefModel    string `yaml:"ref_model"`

	// JudgeModel selects the pairwise judge (claude-* or gemini-*).
	JudgeModel string `yaml:"judge_model"`

	// Criterion overrides the judge's default preference criterion.
	Criterion string `yaml:"criterion"`

	// Generation holds the sampling parameters shared by both sides of each
	// pair. The model field is filled per side from PolicyModel/RefModel.
	Generation generation.Config `yaml:"generation"`

	// Workers is the number of parallel dataset shards.
	Workers int `yaml:"workers"`

	// JudgeConcurrency bounds parallel judge calls within a worker's batch.
	JudgeConcurrency int `yaml:"judge_concurrency"`

	// Rounds is how many evaluation events to run; Interval the pause
	// between consecutive rounds.
	Rounds   int      `yaml:"rounds"`
	Interval Duration `yaml:"interval"`
}

// Duration decodes YAML scalars in time.ParseDuration syntax ("30s", "5m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// loadSuite reads, defaults, and validates a suite file.
func loadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing suite: %w", err)
	}

	if suite.Run == "" {
		suite.Run = "winrate"
	}
	if suite.Workers == 0 {
		suite.Workers = 4
	}
	if suite.JudgeConcurrency == 0 {
		suite.JudgeConcurrency = 4
	}
	if suite.Rounds == 0 {
		suite.Rounds = 1
	}

	defaults := generation.DefaultConfig("")
	if suite.Generation.MaxTokens == 0 {
		suite.Generation.MaxTokens = defaults.MaxTokens
	}
	if suite.Generation.Temperature == 0 {
		suite.Generation.Temperature = defaults.Temperature
	}
	if suite.Generation.TopP == 0 {
		suite.Generation.TopP = defaults.TopP
	}

	switch {
	case suite.Dataset == "":
		return nil, errors.New("suite is missing dataset path")
	case suite.PolicyModel == "":
		return nil, errors.New("suite is missing policy_model")
	case suite.RefModel == "":
		return nil, errors.New("suite is missing ref_model")
	case suite.JudgeModel == "":
		return nil, errors.New("suite is missing judge_model")
	}

	return &suite, nil
}

// generationConfig returns the suite's sampling parameters bound to a
// specific served model name.
func (s *Suite) generationConfig(model string) generation.Config {
	cfg := s.Generation
	cfg.Model = model
	return cfg
}
