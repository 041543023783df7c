// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sonai/internal/observability"
	"sonai/internal/predictor"
)

// Scorer is the part of a predictor the pool needs
type Scorer interface {
	PredictSource(source, text string) predictor.Prediction
}

// Explainer is a Scorer that can also return the scoring internals
type Explainer interface {
	Scorer
	ExplainSource(source, text string) predictor.Explanation
}

// WorkerPool scores texts on a fixed number of goroutines
type WorkerPool struct {
	workers  int
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	observer *observability.StandardObserver
	scorer   Scorer
}

// Job is one text to score
type Job struct {
	Index  int
	JobID  string
	Source string
	Text   string
	// Explain asks the worker for the full Explanation.
	Explain bool
}

// Result is the outcome of one Job
type Result struct {
	Index      int
	JobID      string
	Source     string
	Prediction predictor.Prediction
	// Explanation is set for jobs with Explain.
	Explanation *predictor.Explanation
	Duration    time.Duration
	Error       error
}

// NewWorkerPool creates a pool bound to ctx
func NewWorkerPool(ctx context.Context, workers int, scorer Scorer, observer *observability.StandardObserver) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workers:  workers,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
		observer: observer,
		scorer:   scorer,
	}
}

// Start launches the worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Close stops accepting jobs
func (wp *WorkerPool) Close() {
	close(wp.jobs)
}

// Stop waits for the workers and closes the results channel
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit queues a job. It returns false once the pool's context is done.
func (wp *WorkerPool) Submit(job *Job) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		if wp.ctx.Err() != nil {
			continue
		}
		result := wp.processJob(job, id)

		select {
		case wp.results <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job *Job, workerID int) (result *Result) {
	start := time.Now()
	result = &Result{Index: job.Index, JobID: job.JobID, Source: job.Source}

	var finishTiming func(bool, map[string]interface{})
	if wp.observer != nil {
		finishTiming = wp.observer.StartTiming("worker_pool", "process_job", job.Source)
	}

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("scoring %s panicked: %v", job.Source, r)
		}
		result.Duration = time.Since(start)
		if finishTiming != nil {
			finishTiming(result.Error == nil, map[string]interface{}{
				"worker_id": workerID,
				"job_id":    job.JobID,
			})
		}
	}()

	if !job.Explain {
		result.Prediction = wp.scorer.PredictSource(job.Source, job.Text)
		return result
	}

	explainer, ok := wp.scorer.(Explainer)
	if !ok {
		result.Error = fmt.Errorf("scoring %s: scorer cannot explain", job.Source)
		return result
	}
	ex := explainer.ExplainSource(job.Source, job.Text)
	result.Prediction = ex.Prediction
	result.Explanation = &ex
	return result
}
