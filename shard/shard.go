/*
Copyright 2026 Model Arena, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package shard partitions an ordered dataset across parallel workers and
// reassembles per-worker results in dataset order. Shards are padded to
// equal length so every worker performs the same amount of work; the
// duplicates introduced by padding are removed again by Truncate after
// gathering.
package shard

import (
	"errors"
	"fmt"
)

// Split partitions items into workers shards of equal length, padding the
// tail of the final shards by repeating the last item. An empty input yields
// workers empty shards. Order is preserved: concatenating the shards (and
// truncating the padding) reproduces the input.
func Split[T any](items []T, workers int) ([][]T, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", workers)
	}

	shards := make([][]T, workers)
	if len(items) == 0 {
		for i := range shards {
			shards[i] = []T{}
		}
		return shards, nil
	}

	size := (len(items) + workers - 1) / workers
	last := items[len(items)-1]

	for w := range workers {
		sh := make([]T, 0, size)
		for i := w * size; i < (w+1)*size; i++ {
			if i < len(items) {
				sh = append(sh, items[i])
			} else {
				sh = append(sh, last)
			}
		}
		shards[w] = sh
	}

	return shards, nil
}

// Gather concatenates per-worker results in worker order. Every shard must
// have the same length, mirroring the equal-size guarantee of Split.
func Gather[T any](shards [][]T) ([]T, error) {
	if len(shards) == 0 {
		return nil, errors.New("no shards to gather")
	}

	size := len(shards[0])
	total := 0
	for i, sh := range shards {
		if len(sh) != size {
			return nil, fmt.Errorf("shard %d has %d items, expected %d", i, len(sh), size)
		}
		total += len(sh)
	}

	gathered := make([]T, 0, total)
	for _, sh := range shards {
		gathered = append(gathered, sh...)
	}
	return gathered, nil
}

// Truncate returns the first n items, dropping the duplicates that shard
// padding appended past the true dataset length. It is idempotent: inputs
// already at or below n are returned unchanged.
func Truncate[T any](items []T, n int) []T {
	if n >= len(items) {
		return items
	}
	return items[:n]
}
