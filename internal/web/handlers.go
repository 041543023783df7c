// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"sonai/internal/formatters"
	"sonai/internal/formatters/shared"
	"sonai/internal/history"
	"sonai/internal/parallel"
	"sonai/internal/version"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
	maxSourceLength     = 200
)

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	Text    string `json:"text"`
	Source  string `json:"source,omitempty"`
	Explain bool   `json:"explain,omitempty"`
}

// BatchRequest is the body of POST /api/predict/batch and POST /api/export.
type BatchRequest struct {
	Texts   []string `json:"texts"`
	Sources []string `json:"sources,omitempty"`
	Explain bool     `json:"explain,omitempty"`
	Format  string   `json:"format,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	build := version.Current()
	p := s.engine.Predictor()

	history := map[string]interface{}{"enabled": false}
	if store := s.engine.History(); store != nil {
		history["enabled"] = true
		if n, err := store.Count(r.Context()); err == nil {
			history["entries"] = n
		} else {
			s.logger.Warn("history count failed", "error", err, "request_id", RequestID(r.Context()))
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "sonai-web",
		"version":    build.Version,
		"build_info": build,
		"model": map[string]interface{}{
			"schema":     p.Schema().Version,
			"distance":   p.Bundle().Model.Distance.String(),
			"ai_cluster": int(p.Bundle().AI),
		},
		"history": history,
	})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Predictor().Schema())
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formatters.GetSupportedFormats())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if !s.decode(w, r, &req) {
		return
	}

	source := sanitizeUserInput(req.Source, maxSourceLength)
	if source == "" {
		source = "api"
	}

	results, _, err := s.engine.Analyze(r.Context(), []parallel.Item{{Source: source, Text: req.Text}}, req.Explain)
	if err != nil {
		s.logger.Warn("predict", "request_id", RequestID(r.Context()), "error", err)
	}
	if len(results) != 1 || results[0].Error != nil {
		s.sendErrorWithStatus(w, "scoring was interrupted", http.StatusServiceUnavailable)
		return
	}

	resp := shared.ConvertResults(results, formatters.FormatterOptions{Verbose: req.Explain})
	writeJSON(w, http.StatusOK, resp.Results[0])
}

func (s *Server) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	results, ok := s.scoreBatch(w, r, nil)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, shared.ConvertResults(results.results, formatters.FormatterOptions{Verbose: results.explain}))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var format string
	results, ok := s.scoreBatch(w, r, func(req BatchRequest) error {
		format = req.Format
		if format == "" {
			format = "json"
		}
		if _, exists := formatters.Get(format); !exists {
			return fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(formatters.List(), ", "))
		}
		return nil
	})
	if !ok {
		return
	}

	content, mimeType, filename, err := formatters.ExportForWeb(format, results.results,
		formatters.FormatterOptions{Verbose: results.explain, NoColor: true})
	if err != nil {
		s.sendErrorWithStatus(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, content)
}

type batchOutcome struct {
	results []formatters.Result
	explain bool
}

// scoreBatch decodes and checks a BatchRequest, then scores it. It writes the
// error response itself and reports false on failure.
func (s *Server) scoreBatch(w http.ResponseWriter, r *http.Request, check func(BatchRequest) error) (batchOutcome, bool) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return batchOutcome{}, false
	}

	switch {
	case len(req.Texts) == 0:
		s.sendError(w, "texts must contain at least one entry")
		return batchOutcome{}, false
	case len(req.Texts) > s.cfg.Web.MaxBatchSize:
		s.sendErrorWithStatus(w, fmt.Sprintf("batch of %d texts exceeds the limit of %d", len(req.Texts), s.cfg.Web.MaxBatchSize), http.StatusRequestEntityTooLarge)
		return batchOutcome{}, false
	case len(req.Sources) > 0 && len(req.Sources) != len(req.Texts):
		s.sendError(w, "sources must be empty or match texts in length")
		return batchOutcome{}, false
	}
	if check != nil {
		if err := check(req); err != nil {
			s.sendError(w, err.Error())
			return batchOutcome{}, false
		}
	}

	items := make([]parallel.Item, len(req.Texts))
	for i, text := range req.Texts {
		source := ""
		if len(req.Sources) > 0 {
			source = sanitizeUserInput(req.Sources[i], maxSourceLength)
		}
		if source == "" {
			source = fmt.Sprintf("text_%d", i+1)
		}
		items[i] = parallel.Item{Source: source, Text: text}
	}

	results, _, err := s.engine.Analyze(r.Context(), items, req.Explain)
	if err != nil {
		s.logger.Warn("predict batch", "request_id", RequestID(r.Context()), "texts", len(items), "error", err)
	}
	return batchOutcome{results: results, explain: req.Explain}, true
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	store := s.engine.History()
	if store == nil {
		s.sendErrorWithStatus(w, "history is not enabled", http.StatusNotFound)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.sendError(w, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := store.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("history", "request_id", RequestID(r.Context()), "error", err)
		s.sendErrorWithStatus(w, "failed to read history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	store := s.engine.History()
	if store == nil {
		s.sendErrorWithStatus(w, "history is not enabled", http.StatusNotFound)
		return
	}

	entry, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, history.ErrNotFound):
		s.sendErrorWithStatus(w, "history entry not found", http.StatusNotFound)
		return
	case err != nil:
		s.logger.Error("history entry", "request_id", RequestID(r.Context()), "error", err)
		s.sendErrorWithStatus(w, "failed to read history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// decode reads a size-limited JSON body into v. It writes the error response
// itself and reports false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.sendErrorWithStatus(w, fmt.Sprintf("request body exceeds %d bytes", MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return false
		}
		s.sendError(w, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) sendError(w http.ResponseWriter, message string) {
	s.sendErrorWithStatus(w, message, http.StatusBadRequest)
}

func (s *Server) sendErrorWithStatus(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Success:   false,
		Error:     message,
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sanitizeUserInput strips control and markup characters from a client
// supplied label and caps its length
func sanitizeUserInput(input string, maxLength int) string {
	sanitized := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		switch r {
		case '<', '>', '"', '\'', '&':
			return -1
		}
		return r
	}, input)

	if utf8.RuneCountInString(sanitized) > maxLength {
		sanitized = string([]rune(sanitized)[:maxLength]) + "..."
	}
	return strings.TrimSpace(sanitized)
}
