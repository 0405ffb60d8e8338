/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tracker

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Global metrics with consistent dimensions
	metricGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "winrate_eval_metric",
			Help: "Most recent value of each evaluation metric",
		},
		[]string{"run", "metric"},
	)

	evaluationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winrate_evaluations_total",
			Help: "Total number of evaluation events logged",
		},
		[]string{"run"},
	)
)

// promTracker exports evaluation metrics as Prometheus gauges.
type promTracker struct {
	run string
}

// NewProm creates a tracker that mirrors every logged metric to a
// Prometheus gauge labeled with the run name.
func NewProm(run string) Tracker {
	return &promTracker{run: run}
}

// LogMetrics implements Tracker.
func (p *promTracker) LogMetrics(_ context.Context, _ int64, values map[string]float64) error {
	for name, value := range values {
		metricGauge.With(prometheus.Labels{"run": p.run, "metric": name}).Set(value)
	}
	evaluationCounter.With(prometheus.Labels{"run": p.run}).Inc()
	return nil
}
