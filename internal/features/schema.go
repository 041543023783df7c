// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package features maps TextMetrics onto the fixed-order, weighted feature
// vectors that the cluster model was fitted on.
//
// Column order and weights form a versioned schema. A model fitted on one
// schema must never be scored with another.
package features

import (
	"errors"
	"fmt"
	"sort"

	"sonai/internal/metrics"
)

// Dim is the number of feature columns.
const Dim = 15

// Vector is one feature row.
type Vector [Dim]float64

// Column describes one feature column.
type Column struct {
	Name        string  `json:"name" yaml:"name"`
	Weight      float64 `json:"weight" yaml:"weight"`
	Description string  `json:"description" yaml:"description"`
}

// Schema is a versioned column layout.
type Schema struct {
	Version string   `json:"version" yaml:"version"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// ErrUnknownSchema is returned by Lookup for an unregistered version.
var ErrUnknownSchema = errors.New("unknown feature schema")

const (
	// V1 weights every column 1.
	V1 = "v1"
	// V2 pre-emphasizes rare high-signal columns.
	V2 = "v2"
	// DefaultVersion is used when no schema is configured.
	DefaultVersion = V2
)

// columnOrder is the column layout shared by every schema version.
var columnOrder = [Dim]struct {
	name string
	desc string
}{
	{metrics.EmojiRate, "Emoji per sentence, excluding a few emoji common in casual human writing"},
	{metrics.BuzzwordRate, "Marketing buzzwords per sentence, minus benign phrases containing them"},
	{metrics.IrregularDashes, "Typographic dashes and hyphens used as em-dash substitutes"},
	{metrics.IrregularQuotations, "Curly quotes and apostrophes per sentence"},
	{metrics.Labels, "Lines that are a bare label ending in a colon"},
	{metrics.IrregularEllipsis, "Ellipses, both the single glyph and three dots"},
	{metrics.HTMLEscapeCount, "Literal &amp; escapes left in the text"},
	{metrics.NotJustCount, "\"Not just X, it's Y\" constructions"},
	{metrics.DevlogCount, "Devlog heading and update cues"},
	{metrics.IrregularMarkdown, "Headings, emphasis, links, quotes, rules and pasted bullet glyphs"},
	{metrics.Hashtags, "Hashtag tokens"},
	{metrics.HumanInformality, "Broken English, lowercase sentence starts and trailing commas per sentence"},
	{metrics.IncorrectPerspective, "Plural first person and second person pronouns per sentence"},
	{metrics.BackstoryCount, "Narrative backstory cues"},
	{metrics.IrregularArrows, "Unicode arrow glyphs"},
}

var schemas = map[string][Dim]float64{
	V1: {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	V2: {2, 5, 10, 5, 2, 2, 5, 10, 2, 1, 2, 1, 1, 5, 20},
}

// Lookup returns the schema registered under version.
func Lookup(version string) (Schema, error) {
	weights, ok := schemas[version]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownSchema, version)
	}

	s := Schema{Version: version, Columns: make([]Column, Dim)}
	for i, c := range columnOrder {
		s.Columns[i] = Column{Name: c.name, Weight: weights[i], Description: c.desc}
	}
	return s, nil
}

// Default returns the default schema.
func Default() Schema {
	s, err := Lookup(DefaultVersion)
	if err != nil {
		panic(err)
	}
	return s
}

// Versions lists the registered schema versions in order.
func Versions() []string {
	out := make([]string, 0, len(schemas))
	for v := range schemas {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Index returns the column index of the named metric, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column.
func (s Schema) Column(name string) (Column, bool) {
	if i := s.Index(name); i >= 0 {
		return s.Columns[i], true
	}
	return Column{}, false
}
