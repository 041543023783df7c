// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"sonai/internal/formatters"
	_ "sonai/internal/formatters/csv"
	_ "sonai/internal/formatters/json"
	"sonai/internal/formatters/shared"
	_ "sonai/internal/formatters/text"
	_ "sonai/internal/formatters/yaml"
	"sonai/internal/metrics"
	"sonai/internal/predictor"
)

func sampleResults() []formatters.Result {
	return []formatters.Result{
		{
			Source: "post.md",
			Prediction: predictor.Prediction{
				ChanceAI:    82.5,
				ChanceHuman: 17.5,
				Metrics:     metrics.TextMetrics{EmojiRate: 1, IrregularDashes: 3},
			},
		},
		{
			Source: "notes.txt",
			Prediction: predictor.Prediction{
				ChanceAI:    12,
				ChanceHuman: 88,
				Metrics:     metrics.TextMetrics{HumanInformality: 1.5},
			},
		},
		{Source: "broken.txt", Error: errors.New("unreadable")},
	}
}

func TestRegistryListsAllFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "text", "yaml"}, formatters.List())

	info := formatters.GetFormatInfo("csv")
	assert.Equal(t, "text/csv; charset=utf-8", info.MimeType)
	assert.Equal(t, ".csv", info.Extension)
	assert.Len(t, formatters.GetSupportedFormats(), 4)

	f, ok := formatters.Get("JSON")
	require.True(t, ok)
	assert.Equal(t, "application/json", f.MimeType())
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := formatters.Export("sarif", nil, formatters.FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available formats: csv, json, text, yaml")
}

func TestJSONExport(t *testing.T) {
	out, err := formatters.Export("json", sampleResults(), formatters.FormatterOptions{})
	require.NoError(t, err)

	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "ai", resp.Results[0].Verdict)
	assert.Equal(t, "human", resp.Results[1].Verdict)
	assert.Equal(t, "error", resp.Results[2].Verdict)
	assert.Equal(t, "unreadable", resp.Results[2].Error)
	assert.Equal(t, 3.0, resp.Results[0].Metrics.IrregularDashes)
	assert.Equal(t, shared.Summary{Total: 3, AILeaning: 1, HumanLeaning: 1, Failed: 1, MeanChanceAI: 47.25}, resp.Summary)
}

func TestJSONCompact(t *testing.T) {
	out, err := formatters.Export("json", sampleResults()[:1], formatters.FormatterOptions{Compact: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "\n")
}

func TestYAMLExport(t *testing.T) {
	out, err := formatters.Export("yaml", sampleResults()[:1], formatters.FormatterOptions{})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, out, "chance_ai: 82.5")
	assert.Contains(t, out, "emoji_rate: 1")
}

func TestCSVExport(t *testing.T) {
	out, err := formatters.Export("csv", sampleResults(), formatters.FormatterOptions{})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "source,chance_ai,chance_human,verdict,emoji_rate,not_just_count"))
	assert.True(t, strings.HasSuffix(lines[0], ",error"))
	assert.True(t, strings.HasPrefix(lines[1], "post.md,82.5,17.5,ai,1,"))
	assert.True(t, strings.HasSuffix(lines[3], ",unreadable"))
	assert.Equal(t, 20, len(strings.Split(lines[1], ",")))
}

func TestTextExport(t *testing.T) {
	out, err := formatters.Export("text", sampleResults(), formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)

	assert.Contains(t, out, "VERDICT")
	assert.Contains(t, out, "[AI    ]   82.50%   17.50% post.md")
	assert.Contains(t, out, "emoji     1\t\tirr_dash  3")
	assert.Contains(t, out, "informal  1.5")
	assert.Contains(t, out, "[ERROR ] broken.txt: unreadable")
	assert.Contains(t, out, "Summary: 3 texts, 1 ai, 1 human, 0 mixed, mean 47.25% AI, 1 failed")
}

func TestTextExportAlignsMetricRows(t *testing.T) {
	results := []formatters.Result{{
		Source: "long.md",
		Prediction: predictor.Prediction{
			ChanceAI:    70,
			ChanceHuman: 30,
			Metrics:     metrics.TextMetrics{EmojiRate: 1, IrregularDashes: 3, Labels: 2},
		},
	}}

	out, err := formatters.Export("text", results, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)

	assert.Contains(t, out, "\n         emoji     1\t\tirr_dash  3\n         labels    2")
}

func TestTextExportVerbose(t *testing.T) {
	results := sampleResults()[:1]
	results[0].Explanation = &predictor.Explanation{Schema: "v2", Distance: "euclidean", AICluster: 1}

	out, err := formatters.Export("text", results, formatters.FormatterOptions{NoColor: true, Verbose: true})
	require.NoError(t, err)

	assert.Contains(t, out, "=== post.md ===")
	assert.Contains(t, out, "Chance AI: 82.50% (ai)")
	assert.Contains(t, out, "irregular_arrows")
	assert.Contains(t, out, "Model: schema v2, euclidean distance, ai cluster 1")
}

func TestTextExportEmpty(t *testing.T) {
	out, err := formatters.Export("text", nil, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Equal(t, "No texts scored.", out)
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, "ai", shared.Verdict(60))
	assert.Equal(t, "mixed", shared.Verdict(50))
	assert.Equal(t, "human", shared.Verdict(40))
}
