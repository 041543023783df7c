// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"sonai/internal/features"
)

// Build metadata, overridden with -ldflags "-X sonai/internal/version.Version=..."
var (
	Version   = "0.0.0-development"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// shortCommit is the length a VCS revision is cut to for display
const shortCommit = 12

// Build describes the running binary
type Build struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	BuildDate     string `json:"build_date"`
	FeatureSchema string `json:"feature_schema"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
}

// Current returns the build metadata. Commit and date fall back to the VCS
// stamp the Go toolchain embeds when they were not set at link time.
func Current() Build {
	b := Build{
		Version:       Version,
		Commit:        GitCommit,
		BuildDate:     BuildDate,
		FeatureSchema: features.DefaultVersion,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "unknown" && s.Value != "" {
				b.Commit = s.Value[:min(len(s.Value), shortCommit)]
			}
		case "vcs.time":
			if b.BuildDate == "unknown" && s.Value != "" {
				b.BuildDate = s.Value
			}
		}
	}
	return b
}

// Info returns a one-line version string
func Info() string {
	b := Current()
	return fmt.Sprintf("sonai %s (commit: %s, built: %s, features: %s, go: %s, platform: %s)",
		b.Version, b.Commit, b.BuildDate, b.FeatureSchema, b.GoVersion, b.Platform)
}
