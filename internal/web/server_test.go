// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonai/internal/config"
	"sonai/internal/core"
	"sonai/internal/features"
	"sonai/internal/formatters/shared"
	"sonai/internal/history"
	"sonai/internal/testutil"
)

func newTestServer(t *testing.T, withHistory bool) (*Server, *bytes.Buffer) {
	t.Helper()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Model.Dir = t.TempDir()
	cfg.Web.MaxBatchSize = 4
	testutil.WriteBundle(t, cfg.Model.Dir)

	ec := core.EngineConfig{Config: cfg, Workers: 2, LogWriter: io.Discard}
	if withHistory {
		ec.HistoryPath = filepath.Join(t.TempDir(), "history.db")
	}
	engine, err := core.NewEngine(ec)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	return NewServer(engine, cfg, logger), &logs
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	s, logs := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "sonai-web", body["service"])
	assert.Equal(t, map[string]interface{}{"enabled": false}, body["history"])
	modelInfo := body["model"].(map[string]interface{})
	assert.Equal(t, features.V2, modelInfo["schema"])
	assert.Equal(t, "euclidean", modelInfo["distance"])

	assert.Contains(t, logs.String(), `"path":"/health"`)
	assert.Contains(t, logs.String(), rec.Header().Get("X-Request-ID"))
}

func TestFeatures(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/features", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var schema features.Schema
	decodeBody(t, rec, &schema)
	assert.Equal(t, features.Default(), schema)
}

func TestPredict(t *testing.T) {
	s, _ := newTestServer(t, false)

	tests := []struct {
		name   string
		body   string
		wantAI float64
	}{
		{"emoji text", `{"text": "Ship it 🚀"}`, 75},
		{"empty text is scored", `{"text": ""}`, 25},
		{"missing text is scored", `{}`, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/predict", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var got shared.JSONResult
			decodeBody(t, rec, &got)
			assert.InDelta(t, tt.wantAI, got.ChanceAI, 1e-9)
			assert.InDelta(t, 100-tt.wantAI, got.ChanceHuman, 1e-9)
			assert.Equal(t, "api", got.Source)
			assert.Nil(t, got.Explanation)
		})
	}
}

func TestPredictExplain(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodPost, "/api/predict", `{"text": "Ship it 🚀", "source": "<b>post</b>", "explain": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got shared.JSONResult
	decodeBody(t, rec, &got)
	assert.Equal(t, "bpost/b", got.Source)
	require.NotNil(t, got.Explanation)
	assert.Equal(t, features.V2, got.Explanation.Schema)
	assert.Equal(t, testutil.AICluster, got.Explanation.AICluster)
}

func TestPredictBadRequests(t *testing.T) {
	s, _ := newTestServer(t, false)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{"malformed json", http.MethodPost, "/api/predict", `{"text":`, http.StatusBadRequest},
		{"wrong type", http.MethodPost, "/api/predict", `{"text": 3}`, http.StatusBadRequest},
		{"oversized body", http.MethodPost, "/api/predict", `{"text": "` + strings.Repeat("a", MaxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
		{"wrong method", http.MethodGet, "/api/predict", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			var body ErrorResponse
			decodeBody(t, rec, &body)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, rec.Header().Get("X-Request-ID"), body.RequestID)
		})
	}
}

func TestPredictBatch(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodPost, "/api/predict/batch", `{"texts": ["", "Ship it 🚀", "Plain words."]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got shared.JSONResponse
	decodeBody(t, rec, &got)
	require.Len(t, got.Results, 3)
	assert.Equal(t, "text_1", got.Results[0].Source)
	assert.Equal(t, "text_2", got.Results[1].Source)
	assert.InDelta(t, 75, got.Results[1].ChanceAI, 1e-9)
	assert.Equal(t, 3, got.Summary.Total)
	assert.Equal(t, 1, got.Summary.AILeaning)
	assert.Equal(t, 2, got.Summary.HumanLeaning)
	assert.Equal(t, "human", got.Results[2].Verdict)
}

func TestPredictLowercaseSentenceIsMixed(t *testing.T) {
	s, _ := newTestServer(t, false)

	// one non-capitalized sentence scores 1.5 informality, between the centroids
	rec := do(t, s, http.MethodPost, "/api/predict", `{"text": "plain words"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got shared.JSONResult
	decodeBody(t, rec, &got)
	assert.InDelta(t, 100.0/2.4, got.ChanceAI, 1e-9)
	assert.Equal(t, "mixed", got.Verdict)
}

func TestPredictBatchLimits(t *testing.T) {
	s, _ := newTestServer(t, false)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"empty batch", `{"texts": []}`, http.StatusBadRequest},
		{"over max batch size", `{"texts": ["a","b","c","d","e"]}`, http.StatusRequestEntityTooLarge},
		{"sources length mismatch", `{"texts": ["a","b"], "sources": ["x"]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/predict/batch", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodPost, "/api/export", `{"texts": ["Ship it 🚀"], "sources": ["a.md"], "format": "csv"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sonai-results.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "source,chance_ai,chance_human,verdict"))
	assert.True(t, strings.HasPrefix(lines[1], "a.md,"))

	rec = do(t, s, http.MethodPost, "/api/export", `{"texts": ["x"], "format": "sarif"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormats(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/formats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, name := range []string{"csv", "json", "text", "yaml"} {
		assert.Contains(t, rec.Body.String(), `"`+name+`"`)
	}
}

func TestHistoryDisabled(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistory(t *testing.T) {
	s, _ := newTestServer(t, true)

	rec := do(t, s, http.MethodPost, "/api/predict/batch", `{"texts": ["one", "two", "Ship it 🚀"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var batch shared.JSONResponse
	decodeBody(t, rec, &batch)

	rec = do(t, s, http.MethodGet, "/api/history?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Entries []history.Entry `json:"entries"`
	}
	decodeBody(t, rec, &got)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, batch.Results[2].ID, got.Entries[0].ID)
	assert.Equal(t, history.Digest("Ship it 🚀"), got.Entries[0].TextSHA256)

	rec = do(t, s, http.MethodGet, "/api/history/"+batch.Results[0].ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entry history.Entry
	decodeBody(t, rec, &entry)
	assert.Equal(t, "text_1", entry.Source)

	rec = do(t, s, http.MethodGet, "/api/history/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/history?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	decodeBody(t, rec, &health)
	assert.Equal(t, map[string]interface{}{"enabled": true, "entries": float64(3)}, health["history"])
}

func TestSanitizeUserInput(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"notes.md", 50, "notes.md"},
		{"  <script>\x00 ", 50, "script"},
		{"ééééé", 3, "ééé..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeUserInput(tt.in, tt.max))
	}
}
