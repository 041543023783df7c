// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DebugObserver prints an indented trace of pipeline steps. Nesting is
// tracked per source so traces from parallel workers stay readable.
type DebugObserver struct {
	*StandardObserver
	depth map[string]int
}

// NewDebugObserver creates a debug observer writing to writer
func NewDebugObserver(writer io.Writer) *DebugObserver {
	return &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, writer),
		depth:            make(map[string]int),
	}
}

// StartStep prints the step and returns its completion func
func (d *DebugObserver) StartStep(component, step, source string) func(success bool, details string) {
	start := time.Now()

	d.mu.Lock()
	fmt.Fprintf(d.writer, "%s🔄 %s: %s (%s)\n", d.prefix(source), component, step, sourceLabel(source))
	d.depth[source]++
	d.mu.Unlock()

	return func(success bool, details string) {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.depth[source]--; d.depth[source] <= 0 {
			delete(d.depth, source)
		}
		status, verb := "✅", "completed"
		if !success {
			status, verb = "❌", "failed"
		}
		fmt.Fprintf(d.writer, "%s%s %s: %s %s (%dµs) %s\n",
			d.prefix(source), status, component, step, verb,
			time.Since(start).Microseconds(), details)
	}
}

// LogMetric logs a metric value inside the current step of source
func (d *DebugObserver) LogMetric(component, source, metric string, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.writer, "%s   📊 %s: %s = %v\n", d.prefix(source), component, metric, value)
}

// LogVector logs a feature row with compact number formatting
func (d *DebugObserver) LogVector(component, source, name string, values []float64) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', 4, 64)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.writer, "%s   📐 %s: %s = [%s]\n", d.prefix(source), component, name, strings.Join(parts, " "))
}

// prefix must be called with d.mu held
func (d *DebugObserver) prefix(source string) string {
	return strings.Repeat("  ", d.depth[source])
}

func sourceLabel(source string) string {
	if source == "" {
		return "-"
	}
	return source
}
