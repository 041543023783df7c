// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestStartTimingLogsInDebug(t *testing.T) {
	var buf bytes.Buffer
	o := NewStandardObserver(ObservabilityDebug, &buf)

	finish := o.StartTiming("predictor", "predict", "stdin")
	finish(true, map[string]interface{}{"chance_ai": 42.0})

	var data StandardObservabilityData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if data.Component != "predictor" || data.Operation != "predict" || data.Source != "stdin" {
		t.Errorf("unexpected data: %+v", data)
	}
	if !data.Success {
		t.Error("expected success")
	}
	if data.RequestID == "" {
		t.Error("expected a request id")
	}
}

func TestLogOperationQuietBelowDebug(t *testing.T) {
	for _, level := range []ObservabilityLevel{ObservabilityOff, ObservabilityMetrics} {
		var buf bytes.Buffer
		NewStandardObserver(level, &buf).LogOperation(StandardObservabilityData{Component: "x"})
		if buf.Len() != 0 {
			t.Errorf("level %d wrote %q", level, buf.String())
		}
	}
}

func TestNilObserverIsSafe(t *testing.T) {
	var o *StandardObserver
	o.StartTiming("a", "b", "c")(true, nil)
	if o.Level() != ObservabilityOff {
		t.Error("nil observer should report off")
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		debug, verbose bool
		want           ObservabilityLevel
	}{
		{false, false, ObservabilityOff},
		{false, true, ObservabilityMetrics},
		{true, false, ObservabilityDebug},
		{true, true, ObservabilityDebug},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.debug, tt.verbose); got != tt.want {
			t.Errorf("LevelFor(%v, %v) = %d, want %d", tt.debug, tt.verbose, got, tt.want)
		}
	}
}

func TestDebugObserverSteps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)

	done := d.StartStep("predictor", "normalize", "sample.md")
	d.LogMetric("normalize", "sample.md", "sentences", 3)
	d.LogVector("predictor", "sample.md", "features", []float64{0, 1.5, 20})
	done(true, "")
	d.StartStep("predictor", "score", "")(false, "bad row")

	out := buf.String()
	for _, want := range []string{
		"🔄 predictor: normalize (sample.md)",
		"     📊 normalize: sentences = 3",
		"     📐 predictor: features = [0 1.5 20]",
		"✅ predictor: normalize completed",
		"🔄 predictor: score (-)",
		"❌ predictor: score failed",
		"bad row",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugObserverDepthPerSource(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)

	doneA := d.StartStep("predictor", "metrics", "a.md")
	doneB := d.StartStep("predictor", "metrics", "b.md")
	doneB(true, "")
	doneA(true, "")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		if strings.HasPrefix(line, " ") {
			t.Errorf("line %q is indented; sources must not nest into each other", line)
		}
	}
	if len(d.depth) != 0 {
		t.Errorf("depth not released: %v", d.depth)
	}
}
