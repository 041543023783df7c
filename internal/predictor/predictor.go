// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package predictor ties the metric pipeline to a loaded model bundle and
// exposes the single Predict entry point used by every host.
package predictor

import (
	"errors"
	"fmt"

	"sonai/internal/features"
	"sonai/internal/metrics"
	"sonai/internal/model"
	"sonai/internal/observability"
)

// ErrSchemaMismatch is returned when the model was fitted on a different
// feature schema than the vectorizer uses.
var ErrSchemaMismatch = errors.New("model and feature schema versions differ")

// Prediction is the public result for one text.
type Prediction struct {
	ChanceAI    float64             `json:"chance_ai" yaml:"chance_ai"`
	ChanceHuman float64             `json:"chance_human" yaml:"chance_human"`
	Metrics     metrics.TextMetrics `json:"metrics" yaml:"metrics"`
}

// Explanation is a Prediction plus every intermediate value.
type Explanation struct {
	Prediction `yaml:",inline"`

	Schema    string          `json:"schema" yaml:"schema"`
	Distance  string          `json:"distance" yaml:"distance"`
	AICluster int             `json:"ai_cluster" yaml:"ai_cluster"`
	Features  features.Vector `json:"features" yaml:"features"`
	Scaled    features.Vector `json:"scaled" yaml:"scaled"`
	Scores    model.Scores    `json:"scores" yaml:"scores"`
}

// Predictor scores texts against an injected model bundle. All fields are
// read-only after New, so one Predictor may serve concurrent callers.
type Predictor struct {
	factory  *metrics.Factory
	schema   features.Schema
	bundle   *model.Bundle
	observer *observability.StandardObserver
	debug    *observability.DebugObserver
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithObserver logs one timed operation per prediction.
func WithObserver(o *observability.StandardObserver) Option {
	return func(p *Predictor) { p.observer = o }
}

// WithDebugObserver traces every pipeline stage.
func WithDebugObserver(d *observability.DebugObserver) Option {
	return func(p *Predictor) {
		p.debug = d
		if d != nil && p.observer == nil {
			p.observer = d.StandardObserver
		}
	}
}

// New validates the bundle against the schema and returns a Predictor.
func New(factory *metrics.Factory, schema features.Schema, bundle *model.Bundle, opts ...Option) (*Predictor, error) {
	if factory == nil {
		return nil, fmt.Errorf("predictor requires a metrics factory")
	}
	if bundle == nil {
		return nil, fmt.Errorf("predictor requires a model bundle")
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model bundle: %w", err)
	}
	if len(schema.Columns) != features.Dim {
		return nil, fmt.Errorf("feature schema %q has %d columns, want %d", schema.Version, len(schema.Columns), features.Dim)
	}
	if bundle.Model.Schema != schema.Version {
		return nil, fmt.Errorf("%w: model %q, vectorizer %q", ErrSchemaMismatch, bundle.Model.Schema, schema.Version)
	}

	p := &Predictor{
		factory: factory,
		schema:  schema,
		bundle:  bundle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Schema returns the feature schema in use.
func (p *Predictor) Schema() features.Schema {
	return p.schema
}

// Bundle returns the loaded artifacts.
func (p *Predictor) Bundle() *model.Bundle {
	return p.bundle
}

// Predict scores one text. Every input, including the empty string, yields
// a prediction.
func (p *Predictor) Predict(text string) Prediction {
	return p.PredictSource("", text)
}

// PredictSource is Predict with a source label for logging.
func (p *Predictor) PredictSource(source, text string) Prediction {
	return p.explain(source, text).Prediction
}

// Explain scores one text and keeps the intermediate vectors.
func (p *Predictor) Explain(text string) Explanation {
	return p.explain("", text)
}

// ExplainSource is Explain with a source label for logging.
func (p *Predictor) ExplainSource(source, text string) Explanation {
	return p.explain(source, text)
}

func (p *Predictor) explain(source, text string) Explanation {
	var finish func(bool, map[string]interface{})
	if p.observer != nil {
		finish = p.observer.StartTiming("predictor", "predict", source)
	}

	var ex Explanation
	p.trace(source, "metrics", func() {
		ex.Metrics = p.factory.Calculate(text)
	})
	p.trace(source, "vectorize", func() {
		ex.Features = p.schema.Vectorize(ex.Metrics)
		ex.Scaled = p.bundle.Scaler.Transform(ex.Features)
		if p.debug != nil {
			p.debug.LogVector("predictor", source, "features", ex.Features[:])
			p.debug.LogVector("predictor", source, "scaled", ex.Scaled[:])
		}
	})
	p.trace(source, "score", func() {
		ex.Scores = model.Score(ex.Scaled, p.bundle.Model)
	})

	ex.ChanceAI = ex.Scores.ChanceAI(p.bundle.AI)
	ex.ChanceHuman = 100 - ex.ChanceAI
	ex.Schema = p.schema.Version
	ex.Distance = p.bundle.Model.Distance.String()
	ex.AICluster = int(p.bundle.AI)

	if p.debug != nil {
		p.debug.LogMetric("predictor", source, "chance_ai", ex.ChanceAI)
	}
	if finish != nil {
		finish(true, map[string]interface{}{
			"chance_ai":   ex.ChanceAI,
			"text_length": len(text),
		})
	}
	return ex
}

func (p *Predictor) trace(source, step string, fn func()) {
	if p.debug == nil {
		fn()
		return
	}
	done := p.debug.StartStep("predictor", step, source)
	fn()
	done(true, "")
}
