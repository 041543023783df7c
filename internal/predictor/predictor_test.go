// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package predictor_test

import (
	"bytes"
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonai/internal/features"
	"sonai/internal/metrics"
	"sonai/internal/model"
	"sonai/internal/observability"
	"sonai/internal/predictor"
	"sonai/internal/testutil"
)

func TestPredict(t *testing.T) {
	p := testutil.Predictor(t)

	tests := []struct {
		name   string
		text   string
		wantAI float64
	}{
		{"empty text leans human", "", 25},
		{"emoji every sentence leans ai", "Ship it 🚀", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Predict(tt.text)
			assert.InDelta(t, tt.wantAI, got.ChanceAI, 1e-9)
			assert.InDelta(t, 100, got.ChanceAI+got.ChanceHuman, 1e-9)
		})
	}
}

func TestPredictBounds(t *testing.T) {
	p := testutil.Predictor(t)
	inputs := []string{
		"",
		"— — — → → “ ” 🚀🚀🚀🚀🚀",
		"# Title\n\n**Bold** [link](x) > quote\n\n---",
		"lol idk tbh, gonna do it later,",
		string([]byte{0xc3, 0x28}),
	}

	for _, in := range inputs {
		got := p.Predict(in)
		assert.False(t, math.IsNaN(got.ChanceAI), in)
		assert.GreaterOrEqual(t, got.ChanceAI, 0.0, in)
		assert.LessOrEqual(t, got.ChanceAI, 100.0, in)
	}
}

func TestPredictJSONShape(t *testing.T) {
	p := testutil.Predictor(t)

	data, err := json.Marshal(p.Predict("Day:\nRest of text"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "chance_ai")
	assert.Contains(t, decoded, "chance_human")

	m, ok := decoded["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, m, 15)
	assert.Equal(t, 1.0, m["labels"])
}

func TestExplain(t *testing.T) {
	p := testutil.Predictor(t)

	ex := p.Explain("Ship it 🚀")
	assert.Equal(t, features.V2, ex.Schema)
	assert.Equal(t, "euclidean", ex.Distance)
	assert.Equal(t, testutil.AICluster, ex.AICluster)
	assert.Equal(t, 2.0, ex.Features[0])
	assert.Equal(t, ex.Features, ex.Scaled)
	assert.Equal(t, p.Predict("Ship it 🚀"), ex.Prediction)
}

func TestNewRejectsSchemaMismatch(t *testing.T) {
	factory, err := metrics.NewFactory()
	require.NoError(t, err)

	v1, err := features.Lookup(features.V1)
	require.NoError(t, err)

	_, err = predictor.New(factory, v1, testutil.Bundle())
	assert.ErrorIs(t, err, predictor.ErrSchemaMismatch)
}

func TestNewRejectsBadBundle(t *testing.T) {
	factory, err := metrics.NewFactory()
	require.NoError(t, err)

	bad := testutil.Bundle()
	bad.AI = 2
	_, err = predictor.New(factory, features.Default(), bad)
	assert.ErrorIs(t, err, model.ErrClusterIndex)

	_, err = predictor.New(factory, features.Default(), nil)
	assert.Error(t, err)
}

func TestPredictConcurrent(t *testing.T) {
	p := testutil.Predictor(t)
	text := "Introducing our revolutionary app — it's not just a tool! 🚀"
	want := p.Predict(text)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, p.Predict(text))
		}()
	}
	wg.Wait()
}

func TestPredictWithDebugObserver(t *testing.T) {
	var buf bytes.Buffer
	p := testutil.Predictor(t, predictor.WithDebugObserver(observability.NewDebugObserver(&buf)))

	p.PredictSource("note.md", "hello")

	out := buf.String()
	for _, step := range []string{"metrics", "vectorize", "scaled = [", "score", "chance_ai", `"operation":"predict"`} {
		assert.Contains(t, out, step)
	}
}
