// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package normalize turns raw, possibly Markdown-formatted prose into the
// plain lowercase text the metric scanners run over, counting structural
// formatting on the way.
package normalize

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// HTMLEscape is the escape sequence counted in the raw input.
const HTMLEscape = "&amp;"

// bulletGlyphs are list bullets pasted as characters rather than written as
// Markdown list markers.
var bulletGlyphs = []string{"•", "●"}

// Result is the normalized form of one input text.
type Result struct {
	// IrregularMarkdown counts bullet glyphs plus structural Markdown elements.
	IrregularMarkdown int
	// HTMLEscapes counts literal "&amp;" sequences in the raw input.
	HTMLEscapes int
	// Cleaned is the extracted text before lowercasing.
	Cleaned string
	// SentenceCount is never below 1.
	SentenceCount int
	// NonCapSentences counts sentences starting with a lowercase ASCII letter.
	NonCapSentences int
	// Lower is Cleaned lowercased. Line breaks inside a block are spaces.
	Lower string
	// LowerLines keeps soft and hard line breaks as newlines.
	LowerLines string
}

// Normalizer parses Markdown and extracts prose. It is safe for concurrent use.
type Normalizer struct {
	parser parser.Parser
}

// New creates a Normalizer with CommonMark plus strikethrough.
func New() *Normalizer {
	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough))
	return &Normalizer{parser: md.Parser()}
}

var defaultNormalizer = New()

// Normalize runs the default Normalizer.
func Normalize(raw string) Result {
	return defaultNormalizer.Normalize(raw)
}

// Normalize extracts text and structure counts from raw.
func (n *Normalizer) Normalize(raw string) Result {
	res := Result{
		HTMLEscapes: strings.Count(raw, HTMLEscape),
	}
	for _, g := range bulletGlyphs {
		res.IrregularMarkdown += strings.Count(raw, g)
	}

	source := []byte(raw)
	doc := n.parser.Parse(text.NewReader(source))

	w := &walker{source: source}
	_ = ast.Walk(doc, w.visit)
	res.IrregularMarkdown += w.markdown

	cleaned := collapseBlankLines(strings.TrimSpace(w.flat.String()))
	lined := collapseBlankLines(strings.TrimSpace(w.lined.String()))

	res.Cleaned = cleaned
	res.SentenceCount, res.NonCapSentences = countSentences(cleaned)
	res.Lower = strings.ToLower(cleaned)
	res.LowerLines = strings.ToLower(lined)
	return res
}

type walker struct {
	source   []byte
	flat     strings.Builder
	lined    strings.Builder
	markdown int
}

func (w *walker) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		if node.Type() == ast.TypeBlock && node.Kind() != ast.KindDocument {
			w.endBlock()
		}
		return ast.WalkContinue, nil
	}

	switch node.Kind() {
	case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindCodeSpan,
		ast.KindHTMLBlock, ast.KindRawHTML:
		return ast.WalkSkipChildren, nil

	case ast.KindThematicBreak, ast.KindBlockquote, ast.KindEmphasis,
		ast.KindHeading, ast.KindLink, ast.KindImage, extast.KindStrikethrough:
		w.markdown++

	case ast.KindAutoLink:
		w.markdown++
		w.write(node.(*ast.AutoLink).Label(w.source))

	case ast.KindText:
		t := node.(*ast.Text)
		value := t.Value(w.source)
		if !t.IsRaw() {
			value = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
		}
		w.write(value)
		if t.SoftLineBreak() || t.HardLineBreak() {
			w.flat.WriteByte(' ')
			w.lined.WriteByte('\n')
		}

	case ast.KindString:
		s := node.(*ast.String)
		if !s.IsCode() {
			w.write(s.Value)
		}
	}

	return ast.WalkContinue, nil
}

func (w *walker) write(b []byte) {
	w.flat.Write(b)
	w.lined.Write(b)
}

func (w *walker) endBlock() {
	for _, b := range []*strings.Builder{&w.flat, &w.lined} {
		s := b.String()
		if len(s) > 0 && s[len(s)-1] != '\n' {
			b.WriteByte('\n')
		}
	}
}

func collapseBlankLines(s string) string {
	return strings.ReplaceAll(s, "\n\n", "\n")
}

func isSentenceBreak(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}

// countSentences returns the sentence count (at least 1) and how many of
// those sentences start with a lowercase ASCII letter.
func countSentences(s string) (total, noncap int) {
	for _, seg := range strings.FieldsFunc(s, isSentenceBreak) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		total++
		if c := seg[0]; c >= 'a' && c <= 'z' {
			noncap++
		}
	}
	if total < 1 {
		total = 1
	}
	return total, noncap
}
