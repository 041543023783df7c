// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"sonai/internal/observability"
)

// maxDefaultWorkers caps the worker count picked from the CPU count
const maxDefaultWorkers = 8

// Item is one named text in a batch
type Item struct {
	Source string
	Text   string
}

// ParallelProcessor scores batches of texts
type ParallelProcessor struct {
	workers  int
	scorer   Scorer
	observer *observability.StandardObserver
}

// ProcessingStats summarizes one batch
type ProcessingStats struct {
	TotalTexts    int           `json:"total_texts"`
	ScoredTexts   int           `json:"scored_texts"`
	FailedTexts   int           `json:"failed_texts"`
	AILeaning     int           `json:"ai_leaning"`
	TotalDuration time.Duration `json:"total_duration_ms"`
	WorkerCount   int           `json:"worker_count"`
	AvgTextTime   time.Duration `json:"avg_text_time_ms"`
}

// DefaultWorkers returns the CPU count, capped at 8
func DefaultWorkers() int {
	return min(runtime.NumCPU(), maxDefaultWorkers)
}

// NewParallelProcessor creates a processor. workers <= 0 picks DefaultWorkers.
func NewParallelProcessor(scorer Scorer, workers int, observer *observability.StandardObserver) *ParallelProcessor {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &ParallelProcessor{
		workers:  workers,
		scorer:   scorer,
		observer: observer,
	}
}

// Workers returns the configured worker count
func (pp *ParallelProcessor) Workers() int {
	return pp.workers
}

// ProgressCallback is called after each scored text
type ProgressCallback func(completed, total int, source string)

// Process scores items in parallel and returns results in input order
func (pp *ParallelProcessor) Process(ctx context.Context, items []Item) ([]Result, *ProcessingStats, error) {
	return pp.ProcessWithProgress(ctx, items, nil)
}

// ProcessWithProgress is Process with a progress callback. When ctx is
// cancelled, unscored items carry the context error and so does the return.
func (pp *ParallelProcessor) ProcessWithProgress(ctx context.Context, items []Item, progressCallback ProgressCallback) ([]Result, *ProcessingStats, error) {
	return pp.process(ctx, items, false, progressCallback)
}

// ExplainWithProgress is ProcessWithProgress with each Result carrying its
// Explanation. The scorer must implement Explainer.
func (pp *ParallelProcessor) ExplainWithProgress(ctx context.Context, items []Item, progressCallback ProgressCallback) ([]Result, *ProcessingStats, error) {
	return pp.process(ctx, items, true, progressCallback)
}

func (pp *ParallelProcessor) process(ctx context.Context, items []Item, explain bool, progressCallback ProgressCallback) ([]Result, *ProcessingStats, error) {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if pp.observer != nil {
		finishTiming = pp.observer.StartTiming("parallel_processor", "process_batch", "batch")
	}

	workers := min(pp.workers, max(len(items), 1))
	pool := NewWorkerPool(ctx, workers, pp.scorer, pp.observer)
	pool.Start()

	go func() {
		for i, item := range items {
			job := &Job{
				Index:   i,
				JobID:   fmt.Sprintf("job_%d", i),
				Source:  item.Source,
				Text:    item.Text,
				Explain: explain,
			}
			if !pool.Submit(job) {
				break
			}
		}
		pool.Close()
		pool.Stop()
	}()

	results := make([]Result, len(items))
	done := make([]bool, len(items))
	stats := &ProcessingStats{TotalTexts: len(items), WorkerCount: workers}
	var scoringTime time.Duration
	completed := 0

	for result := range pool.Results() {
		results[result.Index] = *result
		done[result.Index] = true
		completed++
		scoringTime += result.Duration

		if result.Error != nil {
			stats.FailedTexts++
			if pp.observer != nil {
				pp.observer.LogOperation(observability.StandardObservabilityData{
					Component: "parallel_processor",
					Operation: "score_text",
					Source:    result.Source,
					Error:     result.Error.Error(),
				})
			}
		} else {
			stats.ScoredTexts++
			if result.Prediction.ChanceAI > 50 {
				stats.AILeaning++
			}
		}

		if progressCallback != nil {
			progressCallback(completed, len(items), result.Source)
		}
	}

	var err error
	if completed < len(items) {
		err = ctx.Err()
		if err == nil {
			err = fmt.Errorf("batch stopped after %d of %d texts", completed, len(items))
		}
		for i := range results {
			if !done[i] {
				results[i] = Result{Index: i, JobID: fmt.Sprintf("job_%d", i), Source: items[i].Source, Error: err}
				stats.FailedTexts++
			}
		}
	}

	stats.TotalDuration = time.Since(start)
	stats.AvgTextTime = scoringTime / time.Duration(max(stats.ScoredTexts, 1))

	if finishTiming != nil {
		finishTiming(err == nil, map[string]interface{}{
			"total_texts":  stats.TotalTexts,
			"scored_texts": stats.ScoredTexts,
			"ai_leaning":   stats.AILeaning,
			"worker_count": workers,
		})
	}

	return results, stats, err
}
