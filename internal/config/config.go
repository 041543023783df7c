// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"sonai/internal/features"
	"sonai/internal/model"

	"gopkg.in/yaml.v3"
)

// Formats accepted by the output formatters
var validFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
	"csv":  true,
}

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format  string `yaml:"format"`
		Verbose bool   `yaml:"verbose"`
		Debug   bool   `yaml:"debug"`
		NoColor bool   `yaml:"no_color"`
		Workers int    `yaml:"workers"`
	} `yaml:"defaults"`

	// Pretrained artifacts
	Model struct {
		Dir         string `yaml:"dir"`
		Schema      string `yaml:"schema"`
		model.Files `yaml:",inline"`
	} `yaml:"model"`

	Web struct {
		Port           string `yaml:"port"`
		RequestLogging bool   `yaml:"request_logging"`
		MaxBatchSize   int    `yaml:"max_batch_size"`
	} `yaml:"web"`

	History struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"history"`

	// Profiles for different scoring scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile overrides the defaults for one scenario
type Profile struct {
	Format      string `yaml:"format"`
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`
	NoColor     bool   `yaml:"no_color"`
	Workers     int    `yaml:"workers"`
	ModelDir    string `yaml:"model_dir"`
	Description string `yaml:"description"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"
	config.Model.Dir = "model"
	config.Model.Schema = features.DefaultVersion
	config.Model.Files = model.DefaultFiles()
	config.Web.Port = "8080"
	config.Web.RequestLogging = true
	config.Web.MaxBatchSize = 256
	config.History.Path = "sonai.db"

	config.Profiles["ci"] = Profile{
		Format:      "json",
		NoColor:     true,
		Description: "Machine-readable output for pipelines",
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"sonai.yaml", "sonai.yml", ".sonai.yaml", ".sonai.yml"} {
		if fileExists(name) {
			return name
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		for _, name := range []string{"config.yaml", "config.yml"} {
			path := filepath.Join(dir, "sonai", name)
			if fileExists(path) {
				return path
			}
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names, sorted
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ModelPath returns the directory holding the model artifacts
func (c *Config) ModelPath() string {
	return filepath.Clean(c.Model.Dir)
}

// ValidateConfig rejects settings no component can honour
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if !validFormats[config.Defaults.Format] {
		return fmt.Errorf("unknown output format %q", config.Defaults.Format)
	}
	if config.Defaults.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %d", config.Defaults.Workers)
	}
	if _, err := features.Lookup(config.Model.Schema); err != nil {
		return fmt.Errorf("model schema: %w", err)
	}
	if config.Model.Dir == "" {
		return fmt.Errorf("model directory cannot be empty")
	}
	for _, name := range []string{config.Model.Model, config.Model.Scaler, config.Model.Cluster} {
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("model artifact names must be plain file names, got %q", name)
		}
	}
	if config.Web.MaxBatchSize < 1 {
		return fmt.Errorf("web max_batch_size must be positive: %d", config.Web.MaxBatchSize)
	}
	if config.History.Enabled && config.History.Path == "" {
		return fmt.Errorf("history is enabled but no path is set")
	}

	for name, profile := range config.Profiles {
		if profile.Format != "" && !validFormats[profile.Format] {
			return fmt.Errorf("profile '%s': unknown output format %q", name, profile.Format)
		}
		if profile.Workers < 0 {
			return fmt.Errorf("profile '%s': workers cannot be negative", name)
		}
	}

	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}
