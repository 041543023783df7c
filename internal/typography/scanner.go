// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package typography counts glyph-level signals in normalized text: emoji,
// typographic dashes, arrows, smart quotes, trailing-colon labels and hashtags.
package typography

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kyokomi/emoji/v2"
	"github.com/rivo/uniseg"
)

// Counts holds raw glyph counts for one text.
type Counts struct {
	Emoji           int
	IrregularDashes int
	IrregularArrows int
	IrregularQuotes int
	Labels          int
	Hashtags        int
}

const variationSelector16 = "\ufe0f"

var (
	dashRunes = runeSet("–—‒―⸻⸺−﹘－‑‐᠆־֊")

	arrowRunes = runeSet("→↑↓↔↕⇒⇐⇑⇓➔➜")

	quoteRunes = runeSet("“”‘’")

	// Emoji that human writers use often enough to carry no signal.
	humanEmoji = map[string]struct{}{
		"😭": {},
		"😉": {},
		"🫣": {},
	}

	emojiIndex = emoji.RevCodeMap()
)

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, utf8.RuneCountInString(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func contains(set map[rune]struct{}, r rune) bool {
	_, ok := set[r]
	return ok
}

// Scan counts glyph signals. lower is the lowercased normalized text and
// lowerLines the same text with in-paragraph line breaks preserved.
func Scan(lower, lowerLines string) Counts {
	c := Counts{
		Labels: CountLabels(lowerLines),
	}

	collapsed := Collapse(lower)
	c.Hashtags = CountHashtags(collapsed)
	c.scanGraphemes(collapsed)
	return c
}

// Collapse turns newlines into spaces and folds double spaces once.
func Collapse(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "  ", " ")
}

// CountLabels counts lines of the form "word words:" with nothing after the
// colon. URL schemes are not labels.
func CountLabels(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		label, rest, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(rest) != "" {
			continue
		}
		label = strings.TrimSpace(label)
		if label == "" || label == "http" || label == "https" {
			continue
		}
		if strings.IndexFunc(label, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsSpace(r)
		}) >= 0 {
			continue
		}
		n++
	}
	return n
}

// CountHashtags counts whitespace separated tokens starting with '#' that
// have at least one more byte.
func CountHashtags(s string) int {
	n := 0
	for _, word := range strings.Fields(s) {
		if len(word) > 1 && word[0] == '#' {
			n++
		}
	}
	return n
}

func (c *Counts) scanGraphemes(s string) {
	gr := uniseg.NewGraphemes(s)

	var prev string
	started := false
	for gr.Next() {
		cur := gr.Str()
		if started {
			c.scanGrapheme(prev, cur)
		}
		prev, started = cur, true
	}
	if started {
		c.scanGrapheme(prev, "")
	}
}

func (c *Counts) scanGrapheme(g, next string) {
	if IsEmoji(g) {
		if _, ok := humanEmoji[g]; !ok {
			c.Emoji++
		}
		return
	}

	for _, r := range g {
		switch {
		case r == '-':
			if next != "" {
				nr, _ := utf8.DecodeRuneInString(next)
				if !unicode.IsSpace(nr) {
					c.IrregularDashes++
				}
			}
		case contains(dashRunes, r):
			c.IrregularDashes++
		case contains(arrowRunes, r):
			c.IrregularArrows++
		case contains(quoteRunes, r):
			c.IrregularQuotes++
		}
	}
}

// IsEmoji reports whether the grapheme cluster g is a known emoji, in fully
// qualified or unqualified form.
func IsEmoji(g string) bool {
	if g == "" || isASCII(g) {
		return false
	}
	if _, ok := emojiIndex[g]; ok {
		return true
	}
	if !strings.Contains(g, variationSelector16) {
		_, ok := emojiIndex[g+variationSelector16]
		return ok
	}
	_, ok := emojiIndex[strings.ReplaceAll(g, variationSelector16, "")]
	return ok
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
