// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package paths turns command line arguments into the list of text files to
// score.
package paths

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileBytes caps a single input file.
const MaxFileBytes = 8 << 20

// TextExtensions are picked up when a directory is expanded. Files named
// explicitly are read whatever their extension.
var TextExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdx":      true,
	".txt":      true,
	".text":     true,
	".rst":      true,
	".pdf":      true,
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}

// ValidatePath rejects paths no file system can open
func ValidatePath(path string) error {
	if path == "" {
		return &PathValidationError{Path: path, Reason: "empty path"}
	}
	if strings.ContainsRune(path, 0) {
		return &PathValidationError{Path: path, Reason: "contains null byte"}
	}
	return nil
}

// NormalizePath cleans a path and uses forward slashes for display
func NormalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// IsGlob reports whether path contains glob metacharacters
func IsGlob(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

// Expand resolves files, directories and glob patterns into a sorted,
// duplicate-free file list per argument, in argument order. Directories
// contribute files with a TextExtensions extension, descending into
// subdirectories only when recursive is set. Hidden entries are skipped.
func Expand(args []string, recursive bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		if err := ValidatePath(arg); err != nil {
			return nil, err
		}

		matches := []string{arg}
		if IsGlob(arg) {
			var err error
			matches, err = filepath.Glob(arg)
			if err != nil {
				return nil, &PathValidationError{Path: arg, Reason: err.Error()}
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match pattern %s", arg)
			}
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				add(match)
				continue
			}
			files, err := walkDir(match, recursive)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		}
	}
	return out, nil
}

func walkDir(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && TextExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// ReadText reads a whole file, refusing files over MaxFileBytes. PDF
// documents are reduced to their running text.
func ReadText(path string) (string, error) {
	if IsPDF(path) {
		return ReadPDF(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return readLimited(f, path)
}

// ReadAll reads r, refusing input over MaxFileBytes
func ReadAll(r io.Reader, name string) (string, error) {
	return readLimited(r, name)
}

func readLimited(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileBytes+1))
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", name, err)
	}
	if len(data) > MaxFileBytes {
		return "", fmt.Errorf("%s exceeds the %d byte input limit", name, MaxFileBytes)
	}
	return string(data), nil
}
