// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"math"
	"strings"

	"sonai/internal/features"
)

// Distance names the metric a cluster model was fitted with. The scorer must
// use the same metric as training did.
type Distance uint8

const (
	Euclidean Distance = iota
	Chebyshev
)

var distanceNames = map[Distance]string{
	Euclidean: "euclidean",
	Chebyshev: "chebyshev",
}

func (d Distance) String() string {
	if name, ok := distanceNames[d]; ok {
		return name
	}
	return fmt.Sprintf("distance(%d)", uint8(d))
}

// Valid reports whether d is a known distance.
func (d Distance) Valid() bool {
	_, ok := distanceNames[d]
	return ok
}

// ParseDistance resolves a distance by name.
func ParseDistance(name string) (Distance, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d, n := range distanceNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDistance, name)
}

// Measure returns the distance between a and b.
func (d Distance) Measure(a, b features.Vector) float64 {
	switch d {
	case Chebyshev:
		var largest float64
		for i := range a {
			if diff := math.Abs(a[i] - b[i]); diff > largest {
				largest = diff
			}
		}
		return largest
	default:
		var sum float64
		for i := range a {
			diff := a[i] - b[i]
			sum += diff * diff
		}
		return math.Sqrt(sum)
	}
}
