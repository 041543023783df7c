// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package lexicon

import "fmt"

// Set holds every compiled lexicon used by the metric aggregator.
// A Set is read-only once built and may be shared between goroutines.
type Set struct {
	Buzzword             *Matcher
	NegativeBuzzword     *Matcher
	NotJust              *Matcher
	Devlog               *Matcher
	IrregularEllipsis    *Matcher
	Backstory            *Matcher
	NegativeBackstory    *Matcher
	IncorrectPerspective *Matcher
	BrokenEnglish        *Matcher
	OverlyFormal         *Matcher
}

// NewSet compiles the built-in lexicons.
func NewSet() (*Set, error) {
	return NewSetFromLists(DefaultLists())
}

// NewSetFromLists compiles a Set from caller supplied phrase lists.
func NewSetFromLists(lists Lists) (*Set, error) {
	var set Set
	specs := []struct {
		name     string
		patterns []string
		dst      **Matcher
	}{
		{"buzzword", lists.Buzzword, &set.Buzzword},
		{"negative_buzzword", lists.NegativeBuzzword, &set.NegativeBuzzword},
		{"not_just", lists.NotJust, &set.NotJust},
		{"devlog", lists.Devlog, &set.Devlog},
		{"irregular_ellipsis", lists.IrregularEllipsis, &set.IrregularEllipsis},
		{"backstory", lists.Backstory, &set.Backstory},
		{"negative_backstory", lists.NegativeBackstory, &set.NegativeBackstory},
		{"incorrect_perspective", lists.IncorrectPerspective, &set.IncorrectPerspective},
		{"broken_english", lists.BrokenEnglish, &set.BrokenEnglish},
		{"overly_formal", lists.OverlyFormal, &set.OverlyFormal},
	}

	for _, s := range specs {
		m, err := New(s.name, s.patterns)
		if err != nil {
			return nil, fmt.Errorf("failed to build lexicon set: %w", err)
		}
		*s.dst = m
	}

	return &set, nil
}
