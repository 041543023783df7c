// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"sonai/internal/config"
	"sonai/internal/formatters"
	"sonai/internal/history"
	"sonai/internal/observability"
	"sonai/internal/parallel"
	"sonai/internal/predictor"
)

// EngineConfig holds the settings shared by the CLI and the web server.
type EngineConfig struct {
	Config *config.Config
	// ModelDir, when set, overrides Config.Model.Dir.
	ModelDir string
	// HistoryPath, when set, enables the history store at that path.
	// Otherwise Config.History decides.
	HistoryPath string
	Workers     int
	Debug       bool
	Verbose     bool
	// LogWriter receives observer output. Defaults to stderr.
	LogWriter io.Writer
}

// Engine scores texts and optionally records them.
type Engine struct {
	predictor *predictor.Predictor
	processor *parallel.ParallelProcessor
	history   *history.Store
	observer  *observability.StandardObserver
}

// NewEngine builds the predictor, the batch processor and the history store.
func NewEngine(ec EngineConfig) (*Engine, error) {
	if ec.Config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logWriter := ec.LogWriter
	if logWriter == nil {
		logWriter = os.Stderr
	}

	observer, debugObs := BuildObserver(ec.Debug, ec.Verbose, logWriter)
	opts := []predictor.Option{}
	if debugObs != nil {
		opts = append(opts, predictor.WithDebugObserver(debugObs))
	}

	p, err := BuildPredictor(ec.Config, ec.ModelDir, opts...)
	if err != nil {
		return nil, err
	}

	workers := ec.Workers
	if workers == 0 {
		workers = ec.Config.Defaults.Workers
	}

	e := &Engine{
		predictor: p,
		processor: parallel.NewParallelProcessor(p, workers, observer),
		observer:  observer,
	}

	historyPath := ec.HistoryPath
	if historyPath == "" && ec.Config.History.Enabled {
		historyPath = ec.Config.History.Path
	}
	if historyPath != "" {
		e.history, err = history.Open(historyPath, history.WithFeatureSchema(p.Schema().Version))
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Predictor returns the underlying predictor.
func (e *Engine) Predictor() *predictor.Predictor {
	return e.predictor
}

// History returns the history store, or nil when recording is off.
func (e *Engine) History() *history.Store {
	return e.history
}

// Workers returns the batch worker count.
func (e *Engine) Workers() int {
	return e.processor.Workers()
}

// Close releases the history store.
func (e *Engine) Close() error {
	if e.history == nil {
		return nil
	}
	return e.history.Close()
}

// Analyze scores items in parallel and returns one result per item, in
// order. With explain set, each result carries the scoring internals.
//
// Scored results are returned even when err is non-nil. err reports a
// cancelled batch or failed history writes.
func (e *Engine) Analyze(ctx context.Context, items []parallel.Item, explain bool) ([]formatters.Result, *parallel.ProcessingStats, error) {
	return e.AnalyzeWithProgress(ctx, items, explain, nil)
}

// AnalyzeWithProgress is Analyze with a callback after each scored text.
func (e *Engine) AnalyzeWithProgress(ctx context.Context, items []parallel.Item, explain bool, progress parallel.ProgressCallback) ([]formatters.Result, *parallel.ProcessingStats, error) {
	process := e.processor.ProcessWithProgress
	if explain {
		process = e.processor.ExplainWithProgress
	}
	scored, stats, batchErr := process(ctx, items, progress)

	results := make([]formatters.Result, len(scored))
	var recordErrs []error
	for i, r := range scored {
		results[i] = formatters.Result{
			ID:          r.JobID,
			Source:      r.Source,
			Prediction:  r.Prediction,
			Explanation: r.Explanation,
			Error:       r.Error,
		}
		if r.Error != nil {
			continue
		}

		if e.history != nil {
			id, err := e.history.Record(ctx, r.Source, items[i].Text, r.Prediction)
			if err != nil {
				recordErrs = append(recordErrs, fmt.Errorf("%s: %w", r.Source, err))
				continue
			}
			results[i].ID = id
		}
	}

	if len(recordErrs) > 0 {
		e.observer.LogOperation(observability.StandardObservabilityData{
			Component: "engine",
			Operation: "record_history",
			Error:     fmt.Sprintf("%d history writes failed", len(recordErrs)),
		})
	}

	return results, stats, errors.Join(append([]error{batchErr}, recordErrs...)...)
}
