// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"sonai/internal/formatters"
	"sonai/internal/formatters/shared"
	"sonai/internal/metrics"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and a metric grid"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) MimeType() string {
	return "text/plain; charset=utf-8"
}

func (f *Formatter) Format(results []formatters.Result, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	if len(results) == 0 {
		return "No texts scored.", nil
	}

	var builder strings.Builder
	if !options.Verbose {
		f.appendHeaders(&builder, options)
	}

	for _, r := range results {
		if options.Verbose {
			f.appendDetailedResult(&builder, r, options)
			continue
		}
		f.appendSummaryLine(&builder, r, options)
	}

	if len(results) > 1 {
		f.appendSummary(&builder, shared.Summarize(results), options)
	}

	return strings.TrimRight(builder.String(), "\n"), nil
}

func (f *Formatter) paint(name string, options formatters.FormatterOptions, format string, args ...interface{}) string {
	if options.NoColor {
		return fmt.Sprintf(format, args...)
	}
	return f.colors[name].Sprintf(format, args...)
}

func (f *Formatter) verdictColor(verdict string) string {
	switch verdict {
	case "ai":
		return "red"
	case "human":
		return "green"
	default:
		return "yellow"
	}
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, options formatters.FormatterOptions) {
	builder.WriteString(f.paint("white", options, "%-8s %-8s %-8s %s\n", "VERDICT", "AI%", "HUMAN%", "SOURCE"))
	builder.WriteString(f.paint("white", options, "%s\n", strings.Repeat("-", 40)))
}

// appendSummaryLine adds one line per result followed by its non-zero metrics
func (f *Formatter) appendSummaryLine(builder *strings.Builder, r formatters.Result, options formatters.FormatterOptions) {
	if r.Error != nil {
		fmt.Fprintf(builder, "%s %s: %v\n", f.paint("red", options, "[%-6s]", "ERROR"), r.Source, r.Error)
		return
	}

	verdict := shared.Verdict(r.Prediction.ChanceAI)
	fmt.Fprintf(builder, "%s %s %s %s\n",
		f.paint(f.verdictColor(verdict), options, "[%-6s]", strings.ToUpper(verdict)),
		f.paint("magenta", options, "%7.2f%%", r.Prediction.ChanceAI),
		f.paint("cyan", options, "%7.2f%%", r.Prediction.ChanceHuman),
		r.Source)

	if grid := r.Prediction.Metrics.String(); grid != "" {
		for _, line := range strings.Split(strings.TrimRight(grid, "\n"), "\n") {
			fmt.Fprintf(builder, "         %s\n", strings.TrimLeft(line, " "))
		}
	}
}

// appendDetailedResult prints every metric and the scoring internals
func (f *Formatter) appendDetailedResult(builder *strings.Builder, r formatters.Result, options formatters.FormatterOptions) {
	builder.WriteString(f.paint("white", options, "=== %s ===\n", r.Source))
	if r.Error != nil {
		fmt.Fprintf(builder, "%s %v\n\n", f.paint("red", options, "Error:"), r.Error)
		return
	}

	verdict := shared.Verdict(r.Prediction.ChanceAI)
	fmt.Fprintf(builder, "%s %.2f%% %s\n",
		f.paint("cyan", options, "Chance AI:"),
		r.Prediction.ChanceAI,
		f.paint(f.verdictColor(verdict), options, "(%s)", verdict))
	fmt.Fprintf(builder, "%s %.2f%%\n", f.paint("cyan", options, "Chance human:"), r.Prediction.ChanceHuman)
	if r.ID != "" {
		fmt.Fprintf(builder, "%s %s\n", f.paint("cyan", options, "Record:"), r.ID)
	}

	builder.WriteString(f.paint("cyan", options, "Metrics:\n"))
	for _, field := range r.Prediction.Metrics.Fields() {
		fmt.Fprintf(builder, "  %-22s %s\n", field.Name, metrics.FormatValue(field.Value))
	}

	if ex := r.Explanation; ex != nil {
		fmt.Fprintf(builder, "%s schema %s, %s distance, ai cluster %d\n",
			f.paint("cyan", options, "Model:"), ex.Schema, ex.Distance, ex.AICluster)
		fmt.Fprintf(builder, "%s %.4f / %.4f\n", f.paint("cyan", options, "Distances:"),
			ex.Scores.Distances[0], ex.Scores.Distances[1])
		fmt.Fprintf(builder, "%s %.4f / %.4f\n", f.paint("cyan", options, "Similarities:"),
			ex.Scores.Similarities[0], ex.Scores.Similarities[1])
	}
	builder.WriteString("\n")
}

func (f *Formatter) appendSummary(builder *strings.Builder, s shared.Summary, options formatters.FormatterOptions) {
	fmt.Fprintf(builder, "\n%s %d texts, %s, %s, %d mixed, mean %.2f%% AI",
		f.paint("white", options, "Summary:"), s.Total,
		f.paint("red", options, "%d ai", s.AILeaning),
		f.paint("green", options, "%d human", s.HumanLeaning),
		s.Total-s.AILeaning-s.HumanLeaning-s.Failed, s.MeanChanceAI)
	if s.Failed > 0 {
		fmt.Fprintf(builder, ", %s", f.paint("red", options, "%d failed", s.Failed))
	}
	builder.WriteString("\n")
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
