// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"strings"

	"sonai/internal/lexicon"
	"sonai/internal/normalize"
	"sonai/internal/typography"
)

// noncapWeight scales sentences that start in lowercase when building the
// informality score.
const noncapWeight = 1.5

// Factory computes TextMetrics. It only reads its lexicons and is safe for
// concurrent use.
type Factory struct {
	lex        *lexicon.Set
	normalizer *normalize.Normalizer
}

// NewFactory builds a Factory over the built-in lexicons.
func NewFactory() (*Factory, error) {
	lex, err := lexicon.NewSet()
	if err != nil {
		return nil, err
	}
	return NewFactoryWithLexicons(lex), nil
}

// NewFactoryWithLexicons builds a Factory over a caller supplied lexicon set.
func NewFactoryWithLexicons(lex *lexicon.Set) *Factory {
	return &Factory{
		lex:        lex,
		normalizer: normalize.New(),
	}
}

// Calculate returns the metrics for one text. Any input, including the
// empty string, yields a finite result.
func (f *Factory) Calculate(text string) TextMetrics {
	norm := f.normalizer.Normalize(text)
	glyphs := typography.Scan(norm.Lower, norm.LowerLines)

	collapsed := typography.Collapse(norm.Lower)
	sentences := float64(norm.SentenceCount)

	buzzwords := f.lex.Buzzword.Count(collapsed) - f.lex.NegativeBuzzword.Count(collapsed)
	backstory := f.lex.Backstory.Count(collapsed) - f.lex.NegativeBackstory.Count(collapsed)

	informality := float64(f.lex.BrokenEnglish.Count(collapsed)-f.lex.OverlyFormal.Count(collapsed)) +
		noncapWeight*float64(norm.NonCapSentences)
	if strings.HasSuffix(collapsed, ",") {
		informality++
	}

	return TextMetrics{
		EmojiRate:            float64(glyphs.Emoji) / sentences,
		BuzzwordRate:         float64(buzzwords) / sentences,
		NotJustCount:         float64(f.lex.NotJust.Count(collapsed)),
		HTMLEscapeCount:      float64(norm.HTMLEscapes),
		DevlogCount:          float64(f.lex.Devlog.Count(collapsed)),
		BackstoryCount:       float64(backstory),
		IncorrectPerspective: float64(f.lex.IncorrectPerspective.Count(collapsed)) / sentences,
		HumanInformality:     informality / sentences,
		IrregularEllipsis:    float64(f.lex.IrregularEllipsis.Count(collapsed)),
		IrregularQuotations:  float64(glyphs.IrregularQuotes) / sentences,
		IrregularDashes:      float64(glyphs.IrregularDashes),
		IrregularMarkdown:    float64(norm.IrregularMarkdown),
		IrregularArrows:      float64(glyphs.IrregularArrows),
		Labels:               float64(glyphs.Labels),
		Hashtags:             float64(glyphs.Hashtags),
	}
}

// CalculateAll returns metrics for each text, in input order.
func (f *Factory) CalculateAll(texts []string) []TextMetrics {
	out := make([]TextMetrics, len(texts))
	for i, t := range texts {
		out[i] = f.Calculate(t)
	}
	return out
}
