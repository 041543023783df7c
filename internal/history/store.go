// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package history keeps a SQLite record of scored texts.
//
// Texts are stored as a SHA-256 digest and a length only. The stored metrics
// can be re-vectorized under any feature schema for an external trainer.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sonai/internal/features"
	"sonai/internal/metrics"
	"sonai/internal/predictor"
	"sonai/internal/resilience"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("history entry not found")

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS predictions (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	source       TEXT NOT NULL,
	text_sha256  TEXT NOT NULL,
	text_length  INTEGER NOT NULL,
	chance_ai    REAL NOT NULL,
	chance_human REAL NOT NULL,
	metrics      TEXT NOT NULL,
	schema       TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_predictions_sha ON predictions(text_sha256);
`

// Entry is one recorded prediction.
type Entry struct {
	ID          string              `json:"id" yaml:"id"`
	Source      string              `json:"source" yaml:"source"`
	TextSHA256  string              `json:"text_sha256" yaml:"text_sha256"`
	TextLength  int                 `json:"text_length" yaml:"text_length"`
	ChanceAI    float64             `json:"chance_ai" yaml:"chance_ai"`
	ChanceHuman float64             `json:"chance_human" yaml:"chance_human"`
	Metrics     metrics.TextMetrics `json:"metrics" yaml:"metrics"`
	Schema      string              `json:"schema" yaml:"schema"`
	CreatedAt   time.Time           `json:"created_at" yaml:"created_at"`
}

// Store is a history database handle. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	schema string
	now    func() time.Time
	retry  resilience.Policy
}

type options struct {
	schema      string
	busyTimeout int
	now         func() time.Time
}

// Option customises Open.
type Option func(*options)

// WithFeatureSchema tags recorded entries with a feature schema version.
func WithFeatureSchema(version string) Option { return func(o *options) { o.schema = version } }

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(o *options) { o.busyTimeout = ms } }

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// Open opens or creates the history database at path.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{
		schema:      features.DefaultVersion,
		busyTimeout: 10_000,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("history: mkdir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	if path == MemoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", o.busyTimeout),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: exec schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}

	return &Store{db: db, schema: o.schema, now: o.now, retry: resilience.BusyPolicy()}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the hex SHA-256 of text.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Record stores a prediction for text and returns the new entry id.
func (s *Store) Record(ctx context.Context, source, text string, p predictor.Prediction) (string, error) {
	raw, err := json.Marshal(p.Metrics)
	if err != nil {
		return "", fmt.Errorf("history: encode metrics: %w", err)
	}

	id := uuid.NewString()
	err = resilience.Do(ctx, s.retry, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO predictions
				(id, source, text_sha256, text_length, chance_ai, chance_human, metrics, schema, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, source, Digest(text), len(text), p.ChanceAI, p.ChanceHuman, string(raw),
			s.schema, s.now().UTC().Format(time.RFC3339Nano))
		return err
	})
	if err != nil {
		return "", fmt.Errorf("history: insert: %w", err)
	}
	return id, nil
}

const selectColumns = `id, source, text_sha256, text_length, chance_ai, chance_human, metrics, schema, created_at`

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM predictions ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM predictions WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Count returns the number of recorded entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := resilience.DoValue(ctx, s.retry, func(ctx context.Context) (int, error) {
		var n int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n)
		return n, err
	})
	if err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}

// FeatureRows vectorizes every stored entry under schema, oldest first.
// Repeated texts contribute one row each.
func (s *Store) FeatureRows(ctx context.Context, schema features.Schema) ([]features.Vector, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT metrics FROM predictions ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("history: query metrics: %w", err)
	}
	defer rows.Close()

	out := []features.Vector{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("history: scan metrics: %w", err)
		}
		var m metrics.TextMetrics
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("history: decode metrics: %w", err)
		}
		out = append(out, schema.Vectorize(m))
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e       Entry
		raw     string
		created string
	)
	err := sc.Scan(&e.ID, &e.Source, &e.TextSHA256, &e.TextLength,
		&e.ChanceAI, &e.ChanceHuman, &raw, &e.Schema, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("history: scan: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &e.Metrics); err != nil {
		return Entry{}, fmt.Errorf("history: decode metrics: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Entry{}, fmt.Errorf("history: parse created_at: %w", err)
	}
	return e, nil
}
