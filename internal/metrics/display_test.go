// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics

import "testing"

func TestTextMetricsString(t *testing.T) {
	tests := []struct {
		name string
		m    TextMetrics
		want string
	}{
		{"empty", TextMetrics{}, ""},
		{"single", TextMetrics{Labels: 1}, "labels    1"},
		{
			"two columns",
			TextMetrics{EmojiRate: 1, BuzzwordRate: 0.5, Labels: 2},
			"emoji     1\t\tbuzzword  0.5\n          labels    2",
		},
		{"negative", TextMetrics{BackstoryCount: -1}, "backstory -1"},
		{
			"continuation rows indented",
			TextMetrics{EmojiRate: 1, NotJustCount: 2, IrregularDashes: 3, IrregularArrows: 0.5, Labels: 4},
			"emoji     1\t\tnot_just  2\n" +
				"          irr_dash  3\t\tirr_arr   0.5\n" +
				"          labels    4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		3:       "3",
		-2:      "-2",
		0.25:    "0.2",
		1.75:    "1.8",
		1.0 / 3: "0.3",
	}

	for in, want := range tests {
		if got := FormatValue(in); got != want {
			t.Errorf("FormatValue(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestValue(t *testing.T) {
	m := TextMetrics{IrregularArrows: 4}

	if v, ok := m.Value(IrregularArrows); !ok || v != 4 {
		t.Errorf("Value(%q) = %v, %v", IrregularArrows, v, ok)
	}
	if _, ok := m.Value("missing"); ok {
		t.Error("expected unknown metric to be absent")
	}
}
