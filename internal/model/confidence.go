// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import "sonai/internal/features"

// Scores holds the per-cluster outcome for one scaled feature row.
type Scores struct {
	Distances    [K]float64 `json:"distances"`
	Similarities [K]float64 `json:"similarities"`
}

// Score measures the row against both centroids. Each similarity is
// 1/(1+d); the pair is normalized to sum to 1 only when the sum is positive,
// otherwise the raw values are returned.
func Score(row features.Vector, m *ClusterModel) Scores {
	var s Scores
	var sum float64
	for i := range m.Centroids {
		d := m.Distance.Measure(row, m.Centroids[i])
		s.Distances[i] = d
		s.Similarities[i] = 1 / (1 + d)
		sum += s.Similarities[i]
	}

	if sum > 0 {
		for i := range s.Similarities {
			s.Similarities[i] /= sum
		}
	}
	return s
}

// ChanceAI converts scores into a percentage for the AI cluster.
func (s Scores) ChanceAI(ai AICluster) float64 {
	if int(ai) >= K {
		return 0
	}
	return s.Similarities[ai] * 100
}
