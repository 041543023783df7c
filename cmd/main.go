// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"sonai/internal/config"
	"sonai/internal/core"
	"sonai/internal/formatters"
	_ "sonai/internal/formatters/csv"
	_ "sonai/internal/formatters/json"
	_ "sonai/internal/formatters/text"
	_ "sonai/internal/formatters/yaml"
	"sonai/internal/help"
	"sonai/internal/parallel"
	"sonai/internal/paths"
	"sonai/internal/version"
	"sonai/internal/web"
)

// stdinSource labels text read from standard input
const stdinSource = "stdin"

// configFlags holds command line flag values
type configFlags struct {
	outputFormat string
	modelDir     string
	historyPath  string
	workers      int
	verbose      bool
	debug        bool
	noColor      bool
	quiet        bool
	recursive    bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format      string
	modelDir    string
	historyPath string
	workers     int
	verbose     bool
	debug       bool
	noColor     bool
	quiet       bool
	recursive   bool
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// resolveConfiguration resolves final values in order: built-in default,
// config file, profile, command line flag
func resolveConfiguration(cfg *config.Config, activeProfile *config.Profile, flags *configFlags, isSet func(string) bool) *finalConfiguration {
	final := &finalConfiguration{}

	final.format = "text"
	if cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if activeProfile != nil && activeProfile.Format != "" {
		final.format = activeProfile.Format
	}
	if isSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}

	final.modelDir = cfg.ModelPath()
	if activeProfile != nil && activeProfile.ModelDir != "" {
		final.modelDir = activeProfile.ModelDir
	}
	if isSet("model-dir") && flags.modelDir != "" {
		final.modelDir = flags.modelDir
	}

	if cfg.History.Enabled {
		final.historyPath = cfg.History.Path
	}
	if isSet("history") {
		final.historyPath = flags.historyPath
	}

	final.workers = cfg.Defaults.Workers
	if activeProfile != nil && activeProfile.Workers > 0 {
		final.workers = activeProfile.Workers
	}
	if isSet("workers") {
		final.workers = flags.workers
	}

	final.verbose = cfg.Defaults.Verbose
	if activeProfile != nil {
		final.verbose = activeProfile.Verbose
	}
	if isSet("verbose") {
		final.verbose = flags.verbose
	}

	final.debug = cfg.Defaults.Debug
	if activeProfile != nil {
		final.debug = activeProfile.Debug
	}
	if isSet("debug") {
		final.debug = flags.debug
	}

	final.noColor = cfg.Defaults.NoColor
	if activeProfile != nil {
		final.noColor = activeProfile.NoColor
	}
	if isSet("no-color") {
		final.noColor = flags.noColor
	}

	final.quiet = flags.quiet
	final.recursive = flags.recursive

	return final
}

// handleProfiles lists profiles when asked, otherwise returns the named
// profile (nil when no profile is named)
func handleProfiles(cfg *config.Config, listProfiles bool, profileName string) (*config.Profile, error) {
	if listProfiles {
		profiles := cfg.ListProfiles()
		if len(profiles) == 0 {
			fmt.Println("No profiles defined in configuration file.")
			return nil, nil
		}
		fmt.Println("Available profiles:")
		for _, name := range profiles {
			profile := cfg.GetProfile(name)
			if profile != nil && profile.Description != "" {
				fmt.Printf("  - %s: %s\n", name, profile.Description)
			} else {
				fmt.Printf("  - %s\n", name)
			}
		}
		return nil, nil
	}

	if profileName == "" {
		return nil, nil
	}
	activeProfile := cfg.GetProfile(profileName)
	if activeProfile == nil {
		return nil, fmt.Errorf("profile '%s' not found in config file\n"+
			"Troubleshooting: list available profiles with --list-profiles", profileName)
	}
	return activeProfile, nil
}

func main() {
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles in config file")
	modelDir := flag.String("model-dir", "", "Directory holding the model, scaler and cluster files (default: model)")
	outputFormat := flag.String("format", "", "Output format: text, json, yaml, csv (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	verbose := flag.Bool("verbose", false, "Show feature vectors and cluster distances for each text")
	debug := flag.Bool("debug", false, "Trace each pipeline stage with timings")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	workers := flag.Int("workers", 0, "Parallel scoring workers (default: CPU count, max 8)")
	recursive := flag.Bool("recursive", false, "Recursively expand directories")
	historyPath := flag.String("history", "", "Record predictions in a SQLite history database at this path")
	webMode := flag.Bool("web", false, "Start web server mode instead of CLI scoring")
	webPort := flag.String("port", "", "Port for web server (default: 8080)")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help information")
	showFeatures := flag.Bool("features", false, "List feature columns, or describe the one named as argument")

	flag.Parse()

	flags := &configFlags{
		outputFormat: *outputFormat,
		modelDir:     *modelDir,
		historyPath:  *historyPath,
		workers:      *workers,
		verbose:      *verbose,
		debug:        *debug,
		noColor:      *noColor,
		quiet:        *quiet,
		recursive:    *recursive,
	}

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	cfg := loadConfiguration(*configFile)

	activeProfile, err := handleProfiles(cfg, *listProfiles, *profileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *listProfiles {
		return
	}

	finalConfig := resolveConfiguration(cfg, activeProfile, flags, isFlagSet)

	// Auto-detect non-interactive environment
	isInteractive := isTerminal(os.Stdout)
	if !isInteractive || os.Getenv("CI") != "" || os.Getenv("NO_COLOR") != "" {
		finalConfig.noColor = true
	}

	if *showHelp || *showFeatures {
		helpSystem := help.NewSystem(finalConfig.noColor)
		helpSystem.RegisterDefaults()
		args := flag.Args()
		switch {
		case *showFeatures && len(args) == 0:
			helpSystem.ShowFeaturesHelp()
		case *showFeatures:
			if !helpSystem.ShowFeatureHelp(args[0]) {
				os.Exit(1)
			}
		default:
			helpSystem.ShowGeneralHelp()
		}
		return
	}

	if _, exists := formatters.Get(finalConfig.format); !exists {
		fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'. Available formats: %s\n",
			finalConfig.format, strings.Join(formatters.List(), ", "))
		os.Exit(1)
	}
	if finalConfig.workers < 0 {
		fmt.Fprintf(os.Stderr, "Error: --workers cannot be negative: %d\n", finalConfig.workers)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := core.NewEngine(core.EngineConfig{
		Config:      cfg,
		ModelDir:    finalConfig.modelDir,
		HistoryPath: finalConfig.historyPath,
		Workers:     finalConfig.workers,
		Debug:       finalConfig.debug,
		Verbose:     finalConfig.verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *webMode {
		exitCode := 0
		if err := runWeb(ctx, engine, cfg, *webPort, flag.Args(), finalConfig.debug); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = 1
		}
		engine.Close()
		os.Exit(exitCode)
	}

	exitCode := runCLI(ctx, engine, finalConfig, flag.Args(), *outputFile, isInteractive)
	engine.Close()
	os.Exit(exitCode)
}

// runWeb serves the API until ctx is cancelled
func runWeb(ctx context.Context, engine *core.Engine, cfg *config.Config, port string, args []string, debug bool) error {
	if len(args) > 0 {
		return fmt.Errorf("--web flag cannot be used with file arguments\n" +
			"Web mode starts a server - POST texts to /api/predict instead")
	}
	if port != "" {
		cfg.Web.Port = port
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return web.NewServer(engine, cfg, logger).Start(ctx)
}

// runCLI scores the inputs and writes the formatted report. It returns the
// process exit code.
func runCLI(ctx context.Context, engine *core.Engine, finalConfig *finalConfiguration, args []string, outputFile string, isInteractive bool) int {
	items, readFailures, err := collectInputs(args, finalConfig.recursive, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(items) == 0 && len(readFailures) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input. Pass files as arguments or pipe text on stdin.")
		fmt.Fprintln(os.Stderr, "Use --help for usage.")
		return 1
	}

	showProgress := !finalConfig.quiet && !finalConfig.debug && isTerminal(os.Stderr) && len(items) > 1
	progressStart := time.Now()
	var progress parallel.ProgressCallback
	if showProgress {
		progress = func(completed, total int, _ string) {
			updateProgress(os.Stderr, completed, total, progressStart)
		}
	}

	scored, stats, err := engine.AnalyzeWithProgress(ctx, items, finalConfig.verbose, progress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	results := mergeResults(scored, readFailures)

	if showProgress {
		fmt.Fprintf(os.Stderr, "Scoring complete: %d texts scored in %s\n",
			stats.ScoredTexts, time.Since(progressStart).Round(time.Millisecond))
	}

	output, err := formatters.Export(finalConfig.format, results, formatters.FormatterOptions{
		Verbose: finalConfig.verbose,
		NoColor: finalConfig.noColor,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		return 1
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			return 1
		}
		if !finalConfig.quiet {
			fmt.Fprintf(os.Stderr, "Results written to %s\n", outputFile)
		}
	} else {
		fmt.Print(output)
	}

	for _, r := range results {
		if r.Error != nil {
			return 1
		}
	}
	return 0
}

// readFailure is an input that could not be read, at its position among all
// inputs
type readFailure struct {
	index  int
	source string
	err    error
}

// collectInputs expands args into scoreable items. With no args, stdin is
// read when it is not a terminal. "-" reads stdin explicitly.
func collectInputs(args []string, recursive bool, stdin *os.File) ([]parallel.Item, []readFailure, error) {
	if len(args) == 0 {
		if isTerminal(stdin) {
			return nil, nil, nil
		}
		text, err := paths.ReadAll(stdin, stdinSource)
		if err != nil {
			return nil, nil, err
		}
		return []parallel.Item{{Source: stdinSource, Text: text}}, nil, nil
	}

	var items []parallel.Item
	var failures []readFailure
	position := 0
	var fileArgs []string
	flush := func() error {
		if len(fileArgs) == 0 {
			return nil
		}
		files, err := paths.Expand(fileArgs, recursive)
		if err != nil {
			return err
		}
		fileArgs = nil
		for _, f := range files {
			text, err := paths.ReadText(f)
			if err != nil {
				failures = append(failures, readFailure{index: position, source: paths.NormalizePath(f), err: err})
			} else {
				items = append(items, parallel.Item{Source: paths.NormalizePath(f), Text: text})
			}
			position++
		}
		return nil
	}

	for _, arg := range args {
		if arg != "-" {
			fileArgs = append(fileArgs, arg)
			continue
		}
		if err := flush(); err != nil {
			return nil, nil, err
		}
		text, err := paths.ReadAll(stdin, stdinSource)
		if err != nil {
			failures = append(failures, readFailure{index: position, source: stdinSource, err: err})
		} else {
			items = append(items, parallel.Item{Source: stdinSource, Text: text})
		}
		position++
	}
	if err := flush(); err != nil {
		return nil, nil, err
	}
	return items, failures, nil
}

// mergeResults puts read failures back at their input positions
func mergeResults(scored []formatters.Result, failures []readFailure) []formatters.Result {
	if len(failures) == 0 {
		return scored
	}
	out := make([]formatters.Result, 0, len(scored)+len(failures))
	next := 0
	for _, f := range failures {
		for len(out) < f.index && next < len(scored) {
			out = append(out, scored[next])
			next++
		}
		out = append(out, formatters.Result{Source: f.source, Error: f.err})
	}
	return append(out, scored[next:]...)
}

// updateProgress draws a progress bar with an ETA
func updateProgress(w io.Writer, current, total int, start time.Time) {
	percent := float64(current) / float64(total) * 100
	barWidth := 40
	filledWidth := int(float64(barWidth) * float64(current) / float64(total))
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)

	var etaStr string
	if current > 0 {
		avgTime := time.Since(start) / time.Duration(current)
		remaining := time.Duration(total-current) * avgTime
		etaStr = fmt.Sprintf(" ETA: %s", remaining.Round(time.Second))
	}

	fmt.Fprintf(w, "\r[%s] %d/%d texts (%.1f%%)%s", bar, current, total, percent, etaStr)
	if current == total {
		fmt.Fprintln(w)
	}
}

// isFlagSet reports whether the named flag was given on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
