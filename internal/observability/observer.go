// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StandardObserver records timed scoring operations as JSON lines
type StandardObserver struct {
	level  ObservabilityLevel
	mu     sync.Mutex
	writer io.Writer
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// LevelFor maps the CLI debug/verbose switches onto a level
func LevelFor(debug, verbose bool) ObservabilityLevel {
	switch {
	case debug:
		return ObservabilityDebug
	case verbose:
		return ObservabilityMetrics
	default:
		return ObservabilityOff
	}
}

// NewStandardObserver creates an observer writing to writer
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	return &StandardObserver{
		level:  level,
		writer: writer,
	}
}

// Level returns the configured level
func (o *StandardObserver) Level() ObservabilityLevel {
	if o == nil {
		return ObservabilityOff
	}
	return o.level
}

// StartTiming returns a function that completes and logs the operation
func (o *StandardObserver) StartTiming(component, operation, source string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Source:     source,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation writes data as one JSON line in debug mode
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level != ObservabilityDebug {
		return
	}

	if data.RequestID == "" {
		data.RequestID = uuid.NewString()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	json.NewEncoder(o.writer).Encode(data)
}

// StandardObservabilityData is one logged operation
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RequestID  string                 `json:"request_id"`
	Source     string                 `json:"source,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	TextLength int                    `json:"text_length,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
