// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"sonai/internal/features"
)

// FeatureInfo contains standardized information about a feature column
type FeatureInfo struct {
	Name                string             // Metric name (e.g., "emoji_rate")
	ShortDescription    string             // Short description for the features list
	DetailedDescription string             // What the feature measures
	Normalization       string             // "per sentence" or "raw count"
	Weights             map[string]float64 // Column weight per schema version
	Patterns            []string           // Sample lexicon phrases or glyphs
	Examples            []string           // Example inputs that trigger the feature
}

// Provider defines the interface for help content providers
type Provider interface {
	GetFeatureInfo() FeatureInfo
}

// System manages help content for the application
type System struct {
	providers map[string]Provider
	out       io.Writer
	colors    map[string]*color.Color
}

// NewSystem creates a new help system that writes to stdout
func NewSystem(noColor bool) *System {
	return NewSystemWithWriter(noColor, os.Stdout)
}

// NewSystemWithWriter creates a help system that writes to out
func NewSystemWithWriter(noColor bool, out io.Writer) *System {
	if noColor {
		color.NoColor = true
	}

	return &System{
		providers: make(map[string]Provider),
		out:       out,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"negative": color.New(color.FgRed),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetFeatureInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// RegisterDefaults registers a provider for every feature column
func (h *System) RegisterDefaults() {
	for _, p := range DefaultProviders() {
		h.RegisterProvider(p)
	}
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Fprintln(h.out, "sonai - AI Prose Likelihood Scorer")
	fmt.Fprintln(h.out, "==================================")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "USAGE:")
	fmt.Fprintln(h.out, "  sonai [options] <file|dir|glob>...")
	fmt.Fprintln(h.out, "  cat post.md | sonai [options]")
	fmt.Fprintln(h.out, "  sonai --web [--port <port>]  # Web server mode")
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "OPTIONS:")

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles in config file")
	fmt.Fprintln(w, "  --model-dir\t<path>\tDirectory holding the model, scaler and cluster files (default: model)")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json, yaml, csv (default: text)")
	fmt.Fprintln(w, "  --output\t<path>\tWrite results to a file instead of stdout")
	fmt.Fprintln(w, "  --verbose\t\tShow feature vectors and cluster distances for each text")
	fmt.Fprintln(w, "  --debug\t\tTrace each pipeline stage with timings")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --quiet\t\tSuppress progress output")
	fmt.Fprintln(w, "  --recursive\t\tDescend into subdirectories when a directory is given")
	fmt.Fprintln(w, "  --workers\t<n>\tParallel scoring workers (default: CPU count, max 8)")
	fmt.Fprintln(w, "  --history\t<path>\tRecord predictions in a SQLite history database")
	fmt.Fprintln(w, "  --web\t\tStart web server mode instead of CLI scoring")
	fmt.Fprintln(w, "  --port\t<port>\tPort for web server (default: 8080, only used with --web)")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --features\t\tList all feature columns")
	fmt.Fprintln(w, "  --features <name>\t\tShow detailed help for a single feature")
	w.Flush()

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "EXAMPLES:")
	h.colors["example"].Fprintln(h.out, "  sonai README.md")
	h.colors["example"].Fprintln(h.out, "  sonai --format json --verbose posts/*.md")
	h.colors["example"].Fprintln(h.out, "  sonai --recursive --format csv --output scores.csv docs/")
	h.colors["example"].Fprintln(h.out, "  pbpaste | sonai --profile ci")
	h.colors["example"].Fprintln(h.out, "  sonai --web --port 9000 --history sonai.db")

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "INPUTS:")
	fmt.Fprintln(h.out, "  Directories contribute .md, .markdown, .mdx, .txt, .text, .rst and .pdf files.")
	fmt.Fprintln(h.out, "  Use - or a pipe to read standard input.")

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Project config: sonai.yaml or .sonai.yaml (in current directory)")
	fmt.Fprintln(h.out, "  User config: <user config dir>/sonai/config.yaml")
}

// ShowFeaturesHelp lists every registered feature column
func (h *System) ShowFeaturesHelp() {
	h.colors["title"].Fprintln(h.out, "Feature Columns")
	fmt.Fprintln(h.out, "===============")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  FEATURE\tUNIT\tDESCRIPTION")
	h.colors["header"].Fprintln(w, "  -------\t----\t-----------")
	for _, name := range h.names() {
		info := h.providers[name].GetFeatureInfo()
		fmt.Fprint(w, "  ")
		h.colors["emphasis"].Fprint(w, info.Name)
		fmt.Fprintf(w, "\t%s\t%s\n", info.Normalization, info.ShortDescription)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For detailed information about a specific feature, use:")
	h.colors["example"].Fprintln(h.out, "  sonai --features <name>")
}

// ShowFeatureHelp displays detailed help for one feature. It returns false
// when the feature is unknown.
func (h *System) ShowFeatureHelp(name string) bool {
	provider, exists := h.providers[strings.ToLower(name)]
	if !exists {
		h.colors["negative"].Fprintf(h.out, "Error: Feature '%s' not found.\n", name)
		fmt.Fprintln(h.out, "Use 'sonai --features' to see a list of available features.")
		return false
	}

	info := provider.GetFeatureInfo()

	h.colors["title"].Fprintln(h.out, info.Name)
	fmt.Fprintln(h.out, strings.Repeat("=", len(info.Name)))
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, info.DetailedDescription)
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "NORMALIZATION:")
	fmt.Fprintf(h.out, "  %s\n\n", info.Normalization)

	if len(info.Weights) > 0 {
		h.colors["header"].Fprintln(h.out, "SCHEMA WEIGHTS:")
		versions := make([]string, 0, len(info.Weights))
		for v := range info.Weights {
			versions = append(versions, v)
		}
		sort.Strings(versions)
		for _, v := range versions {
			fmt.Fprint(h.out, "  - ")
			h.colors["item"].Fprintf(h.out, "%s", v)
			fmt.Fprintf(h.out, ": %g\n", info.Weights[v])
		}
		fmt.Fprintln(h.out)
	}

	if len(info.Patterns) > 0 {
		h.colors["header"].Fprintln(h.out, "PATTERNS DETECTED:")
		for _, p := range info.Patterns {
			fmt.Fprint(h.out, "  - ")
			h.colors["item"].Fprintln(h.out, p)
		}
		fmt.Fprintln(h.out)
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Fprintln(h.out, "EXAMPLES:")
		for _, ex := range info.Examples {
			fmt.Fprint(h.out, "  ")
			h.colors["example"].Fprintln(h.out, ex)
		}
	}

	return true
}

// Names returns the registered feature names, sorted
func (h *System) Names() []string {
	return h.names()
}

func (h *System) names() []string {
	out := make([]string, 0, len(h.providers))
	for name := range h.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// weightsFor collects the column weight of name across every schema version
func weightsFor(name string) map[string]float64 {
	out := make(map[string]float64)
	for _, v := range features.Versions() {
		s, err := features.Lookup(v)
		if err != nil {
			continue
		}
		if c, ok := s.Column(name); ok {
			out[v] = c.Weight
		}
	}
	return out
}
