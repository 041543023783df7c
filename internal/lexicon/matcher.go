// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package lexicon

import (
	"errors"
	"fmt"
	"unicode/utf8"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

var (
	// ErrEmptyList is returned when a matcher is built without patterns.
	ErrEmptyList = errors.New("lexicon: pattern list is empty")
	// ErrEmptyPattern is returned for a zero-length pattern.
	ErrEmptyPattern = errors.New("lexicon: empty pattern")
	// ErrInvalidPattern is returned for a pattern that is not valid UTF-8.
	ErrInvalidPattern = errors.New("lexicon: pattern is not valid UTF-8")
)

// Matcher counts occurrences of a fixed phrase list in a haystack.
// Matches are leftmost-first and never overlap.
type Matcher struct {
	name     string
	patterns []string
	ac       ahocorasick.AhoCorasick
}

// New compiles a matcher for the given patterns.
func New(name string, patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyList)
	}
	for i, p := range patterns {
		if p == "" {
			return nil, fmt.Errorf("%s: pattern %d: %w", name, i, ErrEmptyPattern)
		}
		if !utf8.ValidString(p) {
			return nil, fmt.Errorf("%s: pattern %d: %w", name, i, ErrInvalidPattern)
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostFirstMatch,
		DFA:                  true,
	})

	owned := make([]string, len(patterns))
	copy(owned, patterns)

	return &Matcher{
		name:     name,
		patterns: owned,
		ac:       builder.Build(owned),
	}, nil
}

// Name returns the matcher's lexicon name.
func (m *Matcher) Name() string {
	return m.name
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Count returns the number of non-overlapping matches in haystack. The
// automaton restarts one byte after each match start, so matches that begin
// inside the previous counted match are skipped.
func (m *Matcher) Count(haystack string) int {
	if haystack == "" {
		return 0
	}
	n, end := 0, 0
	iter := m.ac.Iter(haystack)
	for match := iter.Next(); match != nil; match = iter.Next() {
		if match.Start() < end {
			continue
		}
		n++
		end = match.End()
	}
	return n
}
