// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package testutil builds small, fully valid model bundles for tests.
package testutil

import (
	"testing"

	"sonai/internal/features"
	"sonai/internal/metrics"
	"sonai/internal/model"
	"sonai/internal/predictor"
)

// AICluster is the AI cluster index of Bundle.
const AICluster = 1

// Bundle returns an identity-scaled v2 model with a human centroid at the
// origin and an AI centroid one emoji per sentence away.
//
// An empty text scores 25% AI; one emoji per sentence scores 75% AI.
func Bundle() *model.Bundle {
	m := &model.ClusterModel{Schema: features.V2, Distance: model.Euclidean}
	schema := features.Default()
	m.Centroids[AICluster][0] = schema.Columns[0].Weight

	s := &model.LinearScaler{}
	for i := range s.Scales {
		s.Scales[i] = 1
	}
	return &model.Bundle{Model: m, Scaler: s, AI: AICluster}
}

// Predictor returns a Predictor over Bundle.
func Predictor(t testing.TB, opts ...predictor.Option) *predictor.Predictor {
	t.Helper()

	factory, err := metrics.NewFactory()
	if err != nil {
		t.Fatalf("failed to build metrics factory: %v", err)
	}
	p, err := predictor.New(factory, features.Default(), Bundle(), opts...)
	if err != nil {
		t.Fatalf("failed to build predictor: %v", err)
	}
	return p
}

// WriteBundle saves Bundle into dir with the default file names.
func WriteBundle(t testing.TB, dir string) {
	t.Helper()
	if err := model.SaveBundle(dir, model.DefaultFiles(), Bundle()); err != nil {
		t.Fatalf("failed to save bundle: %v", err)
	}
}
