// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"strings"
	"testing"

	"sonai/internal/features"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "sonai "+Version) {
		t.Errorf("Info() = %q, want prefix %q", info, "sonai "+Version)
	}
	for _, want := range []string{"features: " + features.DefaultVersion, runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() = %q, missing %q", info, want)
		}
	}
}

func TestCurrentFallbacks(t *testing.T) {
	b := Current()
	if b.Version != Version || b.FeatureSchema != features.DefaultVersion {
		t.Errorf("Current() = %+v", b)
	}
	if b.Commit == "" || b.BuildDate == "" {
		t.Errorf("Current() left commit or date empty: %+v", b)
	}
}

func TestCurrentKeepsLinkedCommit(t *testing.T) {
	saved := GitCommit
	defer func() { GitCommit = saved }()

	GitCommit = "abc123"
	if got := Current().Commit; got != "abc123" {
		t.Errorf("Current().Commit = %q, want abc123", got)
	}
}
