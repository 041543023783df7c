// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package model holds the pretrained artifacts used for scoring: the two
// cluster centroids, the per-feature linear scaler and the index of the
// AI-leaning cluster.
package model

import (
	"errors"
	"fmt"
	"math"

	"sonai/internal/features"
)

// K is the number of clusters every model must have.
const K = 2

var (
	ErrBadMagic        = errors.New("artifact has wrong magic header")
	ErrClusterCount    = errors.New("cluster model must have exactly 2 clusters")
	ErrDimension       = errors.New("artifact dimension does not match feature dimension")
	ErrClusterIndex    = errors.New("ai cluster index must be 0 or 1")
	ErrUnknownDistance = errors.New("unknown distance")
	ErrNonFinite       = errors.New("artifact contains a non-finite value")
)

// ClusterModel is a fitted two-centroid model.
type ClusterModel struct {
	// Schema is the feature schema version the model was fitted on.
	Schema    string
	Distance  Distance
	Centroids [K]features.Vector
}

// Validate checks the model for values the scorer cannot use.
func (m *ClusterModel) Validate() error {
	if !m.Distance.Valid() {
		return fmt.Errorf("%w: tag %d", ErrUnknownDistance, uint8(m.Distance))
	}
	if _, err := features.Lookup(m.Schema); err != nil {
		return err
	}
	for i := range m.Centroids {
		if err := checkFinite(m.Centroids[i]); err != nil {
			return fmt.Errorf("centroid %d: %w", i, err)
		}
	}
	return nil
}

// LinearScaler is a per-feature affine transform fitted alongside the model.
type LinearScaler struct {
	Offsets features.Vector
	Scales  features.Vector
}

// Transform returns (v - offset) * scale for every column.
func (s *LinearScaler) Transform(v features.Vector) features.Vector {
	var out features.Vector
	for i := range v {
		out[i] = (v[i] - s.Offsets[i]) * s.Scales[i]
	}
	return out
}

// Validate checks the scaler for non-finite parameters.
func (s *LinearScaler) Validate() error {
	if err := checkFinite(s.Offsets); err != nil {
		return fmt.Errorf("offsets: %w", err)
	}
	if err := checkFinite(s.Scales); err != nil {
		return fmt.Errorf("scales: %w", err)
	}
	return nil
}

// AICluster is the index of the AI-leaning cluster.
type AICluster uint8

// Validate reports an out of range index.
func (a AICluster) Validate() error {
	if int(a) >= K {
		return fmt.Errorf("%w: got %d", ErrClusterIndex, a)
	}
	return nil
}

func checkFinite(v features.Vector) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: column %d", ErrNonFinite, i)
		}
	}
	return nil
}
