// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "sonai.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfigOrDefault_NoFile(t *testing.T) {
	cfg := LoadConfigOrDefault("")
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Defaults.Format == "" {
		t.Error("expected default format to be set")
	}
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	cfg := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults)")
	}
}

func TestLoadConfigOrDefault_InvalidYAML(t *testing.T) {
	cfg := LoadConfigOrDefault(writeConfig(t, ":::invalid yaml:::"))
	if cfg == nil {
		t.Fatal("expected non-nil config (fallback to defaults on parse error)")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("expected default format=text, got %q", cfg.Defaults.Format)
	}
	if cfg.Model.Schema != "v2" {
		t.Errorf("expected default schema v2, got %q", cfg.Model.Schema)
	}
	if cfg.Model.Model != "model.kmeans" || cfg.Model.Scaler != "model.scaler" || cfg.Model.Cluster != "model.ai.cluster" {
		t.Errorf("unexpected artifact names: %+v", cfg.Model.Files)
	}
	if !cfg.Web.RequestLogging {
		t.Error("expected request logging on by default")
	}
	if _, ok := cfg.Profiles["ci"]; !ok {
		t.Error("expected 'ci' profile to exist in defaults")
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
defaults:
  format: json
  workers: 3
model:
  dir: /opt/sonai/model
  schema: v1
  scaler_file: custom.scaler
web:
  port: "9090"
  request_logging: false
history:
  enabled: true
  path: /tmp/h.db
profiles:
  quiet:
    format: csv
    no_color: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Format != "json" || cfg.Defaults.Workers != 3 {
		t.Errorf("defaults not applied: %+v", cfg.Defaults)
	}
	if cfg.Model.Dir != "/opt/sonai/model" || cfg.Model.Schema != "v1" {
		t.Errorf("model section not applied: %+v", cfg.Model)
	}
	if cfg.Model.Scaler != "custom.scaler" || cfg.Model.Model != "model.kmeans" {
		t.Errorf("artifact names not merged: %+v", cfg.Model.Files)
	}
	if cfg.Web.Port != "9090" || cfg.Web.RequestLogging {
		t.Errorf("web section not applied: %+v", cfg.Web)
	}
	if !cfg.History.Enabled || cfg.History.Path != "/tmp/h.db" {
		t.Errorf("history section not applied: %+v", cfg.History)
	}
	if got := cfg.ListProfiles(); strings.Join(got, ",") != "ci,quiet" {
		t.Errorf("unexpected profiles %v", got)
	}
	if p := cfg.GetProfile("quiet"); p == nil || p.Format != "csv" {
		t.Errorf("unexpected quiet profile: %+v", p)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"format", "defaults:\n  format: pdf\n", "unknown output format"},
		{"workers", "defaults:\n  workers: -1\n", "workers cannot be negative"},
		{"schema", "model:\n  schema: v7\n", "model schema"},
		{"artifact path", "model:\n  model_file: ../escape.kmeans\n", "plain file names"},
		{"history path", "history:\n  enabled: true\n  path: \"\"\n", "no path"},
		{"profile format", "profiles:\n  bad:\n    format: xml\n", "profile 'bad'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetProfileMissing(t *testing.T) {
	cfg, _ := LoadConfig("")
	if cfg.GetProfile("nope") != nil {
		t.Error("expected nil for unknown profile")
	}
}
