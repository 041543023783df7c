// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"io"

	"sonai/internal/config"
	"sonai/internal/features"
	"sonai/internal/metrics"
	"sonai/internal/model"
	"sonai/internal/observability"
	"sonai/internal/predictor"
)

// BuildObserver returns the observers for the requested log level. The debug
// observer is nil unless debug is set.
func BuildObserver(debug, verbose bool, w io.Writer) (*observability.StandardObserver, *observability.DebugObserver) {
	if debug {
		debugObs := observability.NewDebugObserver(w)
		return debugObs.StandardObserver, debugObs
	}
	return observability.NewStandardObserver(observability.LevelFor(debug, verbose), w), nil
}

// BuildPredictor loads the artifacts named by cfg and returns a Predictor.
// modelDir overrides cfg.Model.Dir when non-empty.
func BuildPredictor(cfg *config.Config, modelDir string, opts ...predictor.Option) (*predictor.Predictor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	schema, err := features.Lookup(cfg.Model.Schema)
	if err != nil {
		return nil, err
	}

	factory, err := metrics.NewFactory()
	if err != nil {
		return nil, fmt.Errorf("failed to build lexicons: %w", err)
	}

	dir := cfg.ModelPath()
	if modelDir != "" {
		dir = modelDir
	}
	bundle, err := model.LoadBundle(dir, cfg.Model.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to load model from %s: %w", dir, err)
	}

	return predictor.New(factory, schema, bundle, opts...)
}
