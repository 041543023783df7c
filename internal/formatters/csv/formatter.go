// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"sonai/internal/formatters"
	"sonai/internal/formatters/shared"
	"sonai/internal/metrics"
)

// Formatter implements CSV output formatting. Each row carries all fifteen
// metrics so the output doubles as a training table.
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values with one row per text and every metric"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) MimeType() string {
	return "text/csv; charset=utf-8"
}

// Headers returns the CSV header row
func Headers() []string {
	headers := []string{"source", "chance_ai", "chance_human", "verdict"}
	for _, field := range (metrics.TextMetrics{}).Fields() {
		headers = append(headers, field.Name)
	}
	return append(headers, "error")
}

func (f *Formatter) Format(results []formatters.Result, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(Headers()); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, r := range results {
		if err := w.Write(f.createCSVRow(r)); err != nil {
			return "", fmt.Errorf("error writing CSV row for %s: %w", r.Source, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (f *Formatter) createCSVRow(r formatters.Result) []string {
	verdict := shared.Verdict(r.Prediction.ChanceAI)
	errText := ""
	if r.Error != nil {
		verdict = "error"
		errText = r.Error.Error()
	}

	row := []string{
		r.Source,
		formatFloat(r.Prediction.ChanceAI),
		formatFloat(r.Prediction.ChanceHuman),
		verdict,
	}
	for _, field := range r.Prediction.Metrics.Fields() {
		row = append(row, formatFloat(field.Value))
	}
	return append(row, errText)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
