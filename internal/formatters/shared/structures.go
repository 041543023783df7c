// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"sonai/internal/formatters"
	"sonai/internal/metrics"
	"sonai/internal/predictor"
)

// Verdict thresholds on chance_ai
const (
	AIThreshold    = 60.0
	HumanThreshold = 40.0
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Results []JSONResult `json:"results" yaml:"results"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// JSONResult represents one scored text in JSON/YAML format
type JSONResult struct {
	ID          string                 `json:"id,omitempty" yaml:"id,omitempty"`
	Source      string                 `json:"source" yaml:"source"`
	ChanceAI    float64                `json:"chance_ai" yaml:"chance_ai"`
	ChanceHuman float64                `json:"chance_human" yaml:"chance_human"`
	Verdict     string                 `json:"verdict" yaml:"verdict"`
	Metrics     metrics.TextMetrics    `json:"metrics" yaml:"metrics"`
	Explanation *predictor.Explanation `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Error       string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary aggregates a batch
type Summary struct {
	Total        int     `json:"total" yaml:"total"`
	AILeaning    int     `json:"ai_leaning" yaml:"ai_leaning"`
	HumanLeaning int     `json:"human_leaning" yaml:"human_leaning"`
	Failed       int     `json:"failed" yaml:"failed"`
	MeanChanceAI float64 `json:"mean_chance_ai" yaml:"mean_chance_ai"`
}

// Verdict buckets a chance_ai percentage
func Verdict(chanceAI float64) string {
	switch {
	case chanceAI >= AIThreshold:
		return "ai"
	case chanceAI <= HumanThreshold:
		return "human"
	default:
		return "mixed"
	}
}

// Summarize aggregates results
func Summarize(results []formatters.Result) Summary {
	s := Summary{Total: len(results)}
	var sum float64
	scored := 0
	for _, r := range results {
		if r.Error != nil {
			s.Failed++
			continue
		}
		scored++
		sum += r.Prediction.ChanceAI
		switch Verdict(r.Prediction.ChanceAI) {
		case "ai":
			s.AILeaning++
		case "human":
			s.HumanLeaning++
		}
	}
	if scored > 0 {
		s.MeanChanceAI = sum / float64(scored)
	}
	return s
}

// ConvertResults converts results to the JSON/YAML structure
func ConvertResults(results []formatters.Result, options formatters.FormatterOptions) JSONResponse {
	out := make([]JSONResult, 0, len(results))
	for _, r := range results {
		jr := JSONResult{
			ID:          r.ID,
			Source:      r.Source,
			ChanceAI:    r.Prediction.ChanceAI,
			ChanceHuman: r.Prediction.ChanceHuman,
			Verdict:     Verdict(r.Prediction.ChanceAI),
			Metrics:     r.Prediction.Metrics,
		}
		if r.Error != nil {
			jr.Verdict = "error"
			jr.Error = r.Error.Error()
		}
		if options.Verbose {
			jr.Explanation = r.Explanation
		}
		out = append(out, jr)
	}

	return JSONResponse{
		Results: out,
		Summary: Summarize(results),
	}
}
