// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmpty(t *testing.T) {
	res := Normalize("")

	assert.Equal(t, 1, res.SentenceCount)
	assert.Equal(t, 0, res.NonCapSentences)
	assert.Equal(t, 0, res.IrregularMarkdown)
	assert.Equal(t, "", res.Lower)
}

func TestNormalizeMarkdownCounts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"plain", "Just some words.", 0},
		{"heading", "# Title\n\nBody text.", 1},
		{"emphasis and strong", "Some *soft* and **loud** words.", 2},
		{"link", "See [the docs](https://example.com).", 1},
		{"image", "![alt](pic.png)", 1},
		{"autolink", "Go to <https://example.com> now.", 1},
		{"blockquote", "> quoted text", 1},
		{"thematic break", "above\n\n---\n\nbelow", 1},
		{"strikethrough", "this is ~~wrong~~ right", 1},
		{"bullet glyphs", "• one\n• two\n● three", 3},
		{"markdown list is not irregular", "- one\n- two", 0},
		{"markup in code is ignored", "```\n# not a heading\n**x**\n```", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in).IrregularMarkdown)
		})
	}
}

func TestNormalizeSkipsCode(t *testing.T) {
	res := Normalize("Intro line.\n\n```go\nfmt.Println(\"SECRET\")\n```\n\nUse `inline` here.")

	assert.NotContains(t, res.Lower, "secret")
	assert.NotContains(t, res.Lower, "inline")
	assert.Contains(t, res.Lower, "intro line.")
	assert.Contains(t, res.Lower, "use  here.")
}

func TestNormalizeLineBreaks(t *testing.T) {
	res := Normalize("Day:\nRest of text")

	assert.Equal(t, "day: rest of text", res.Lower)
	assert.Equal(t, "day:\nrest of text", res.LowerLines)
}

func TestNormalizeBlocksSeparatedByNewline(t *testing.T) {
	res := Normalize("First paragraph\n\nSecond paragraph")

	assert.Equal(t, "First paragraph\nSecond paragraph", res.Cleaned)
	assert.Equal(t, 2, res.SentenceCount)
}

func TestNormalizeSentences(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantTotal  int
		wantNonCap int
	}{
		{"single", "Hello world", 1, 0},
		{"punctuation", "One. Two! Three? Four", 4, 0},
		{"lowercase starts", "one. Two. three", 3, 2},
		{"digits are not lowercase letters", "1 thing. 2 things.", 2, 0},
		{"empty segments dropped", "Wait... what?!", 2, 1},
		{"only punctuation", "...", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(tt.in)
			assert.Equal(t, tt.wantTotal, res.SentenceCount)
			assert.Equal(t, tt.wantNonCap, res.NonCapSentences)
		})
	}
}

func TestNormalizeHTMLEscapes(t *testing.T) {
	res := Normalize("Tom &amp; Jerry &amp; friends")

	assert.Equal(t, 2, res.HTMLEscapes)
	assert.Contains(t, res.Lower, "tom & jerry")
}

func TestNormalizeMalformedMarkdownDoesNotFail(t *testing.T) {
	in := "**unclosed [link](( ``` ~~ > #"
	assert.NotPanics(t, func() {
		res := Normalize(in)
		assert.GreaterOrEqual(t, res.SentenceCount, 1)
	})
}
