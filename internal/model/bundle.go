// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Files names the three artifacts inside a model directory.
type Files struct {
	Model   string `yaml:"model_file"`
	Scaler  string `yaml:"scaler_file"`
	Cluster string `yaml:"cluster_file"`
}

// DefaultFiles returns the conventional artifact file names.
func DefaultFiles() Files {
	return Files{
		Model:   "model.kmeans",
		Scaler:  "model.scaler",
		Cluster: "model.ai.cluster",
	}
}

// Bundle is a loaded, validated and immutable set of scoring artifacts.
type Bundle struct {
	Model  *ClusterModel
	Scaler *LinearScaler
	AI     AICluster
}

// Validate checks every artifact in the bundle.
func (b *Bundle) Validate() error {
	if b.Model == nil || b.Scaler == nil {
		return fmt.Errorf("incomplete model bundle")
	}
	if err := b.Model.Validate(); err != nil {
		return err
	}
	if err := b.Scaler.Validate(); err != nil {
		return err
	}
	return b.AI.Validate()
}

// LoadBundle reads all three artifacts from dir.
func LoadBundle(dir string, files Files) (*Bundle, error) {
	var b Bundle
	var err error

	b.Model, err = loadFile(filepath.Join(dir, files.Model), ReadModel)
	if err != nil {
		return nil, err
	}
	b.Scaler, err = loadFile(filepath.Join(dir, files.Scaler), ReadScaler)
	if err != nil {
		return nil, err
	}
	b.AI, err = loadFile(filepath.Join(dir, files.Cluster), ReadAICluster)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBundle writes all three artifacts to dir, creating it if needed.
func SaveBundle(dir string, files Files, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	writes := []struct {
		name  string
		write func(io.Writer) error
	}{
		{files.Model, func(w io.Writer) error { return WriteModel(w, b.Model) }},
		{files.Scaler, func(w io.Writer) error { return WriteScaler(w, b.Scaler) }},
		{files.Cluster, func(w io.Writer) error { return WriteAICluster(w, b.AI) }},
	}
	for _, wr := range writes {
		path := filepath.Join(dir, wr.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := wr.write(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
	}
	return nil
}

func loadFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return v, nil
}
