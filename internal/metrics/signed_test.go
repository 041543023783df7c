// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonai/internal/features"
	"sonai/internal/lexicon"
	"sonai/internal/metrics"
)

// Buzzword and backstory are positive minus negative hits. The difference is
// kept signed all the way into the feature row.
func TestNegativeCorrectionStaysSigned(t *testing.T) {
	lists := lexicon.DefaultLists()
	lists.Buzzword = []string{"modern"}
	lists.NegativeBuzzword = []string{"modern english", "plain english"}
	lists.Backstory = []string{"grew up"}
	lists.NegativeBackstory = []string{"grew up fast", "long story"}

	set, err := lexicon.NewSetFromLists(lists)
	require.NoError(t, err)
	f := metrics.NewFactoryWithLexicons(set)

	m := f.Calculate("We write plain english. Long story short, plain english wins.")

	// two negative buzzword hits over two sentences, one negative backstory hit
	assert.Equal(t, -1.0, m.BuzzwordRate)
	assert.Equal(t, -1.0, m.BackstoryCount)

	for _, version := range features.Versions() {
		schema, err := features.Lookup(version)
		require.NoError(t, err)
		row := schema.Vectorize(m)

		for _, name := range []string{metrics.BuzzwordRate, metrics.BackstoryCount} {
			col, ok := schema.Column(name)
			require.True(t, ok, name)
			value, _ := m.Value(name)
			assert.Less(t, row[schema.Index(name)], 0.0, "%s %s", version, name)
			assert.Equal(t, value*col.Weight, row[schema.Index(name)], "%s %s", version, name)
		}
	}
}

func TestNegativeCorrectionNetsPerOccurrence(t *testing.T) {
	lists := lexicon.DefaultLists()
	lists.Buzzword = []string{"modern"}
	lists.NegativeBuzzword = []string{"modern english"}

	set, err := lexicon.NewSetFromLists(lists)
	require.NoError(t, err)
	f := metrics.NewFactoryWithLexicons(set)

	// three positive hits, one of them inside the negative phrase
	m := f.Calculate("Modern tools, modern teams and modern english.")
	assert.Equal(t, 2.0, m.BuzzwordRate)
}
