// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web serves the prediction API over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"sonai/internal/config"
	"sonai/internal/core"
	_ "sonai/internal/formatters/csv"
	_ "sonai/internal/formatters/json"
	_ "sonai/internal/formatters/text"
	_ "sonai/internal/formatters/yaml"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 1 << 20

// portAttempts is how many consecutive ports Start tries for the default port
const portAttempts = 10

type ctxKey int

const requestIDKey ctxKey = iota

// Server is the HTTP front end over a scoring engine.
type Server struct {
	engine *core.Engine
	cfg    *config.Config
	logger *slog.Logger
	router chi.Router
	server *http.Server
}

// NewServer builds the router. cfg supplies the port, request logging and
// batch limits.
func NewServer(engine *core.Engine, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	if s.cfg.Web.RequestLogging {
		r.Use(s.logRequests)
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/features", s.handleFeatures)
		r.Get("/formats", s.handleFormats)
		r.Post("/predict", s.handlePredict)
		r.Post("/predict/batch", s.handlePredictBatch)
		r.Post("/export", s.handleExport)
		r.Get("/history", s.handleHistory)
		r.Get("/history/{id}", s.handleHistoryEntry)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.sendErrorWithStatus(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.sendErrorWithStatus(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}

// Start listens on the configured port and serves until ctx is done.
// When the default port is busy the next free one of ten is used.
func (s *Server) Start(ctx context.Context) error {
	listener, err := s.listen(s.cfg.Web.Port)
	if err != nil {
		return err
	}

	s.server = createSecureServer(s.router)
	s.logger.Info("sonai web API started", "addr", listener.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("sonai web API shutting down")
		return s.server.Shutdown(shutdownCtx)
	}
}

// Stop closes the server immediately.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

func (s *Server) listen(port string) (net.Listener, error) {
	if port != "8080" {
		return net.Listen("tcp", ":"+port)
	}

	var lastErr error
	for i := 0; i < portAttempts; i++ {
		listener, err := net.Listen("tcp", ":"+strconv.Itoa(8080+i))
		if err == nil {
			return listener, nil
		}
		lastErr = err
		if i == 0 {
			s.logger.Warn("port 8080 is not available, trying alternative ports")
		}
	}
	return nil, fmt.Errorf("could not find an available port in range 8080-%d: %w", 8080+portAttempts-1, lastErr)
}

func createSecureServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// RequestID returns the id assigned to the request, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
