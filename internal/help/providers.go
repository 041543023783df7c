// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"sonai/internal/features"
	"sonai/internal/lexicon"
	"sonai/internal/metrics"
)

const (
	perSentence = "per sentence"
	rawCount    = "raw count"
)

// samplePatterns is how many lexicon phrases a feature page lists
const samplePatterns = 6

type featureProvider struct {
	info FeatureInfo
}

func (p featureProvider) GetFeatureInfo() FeatureInfo {
	return p.info
}

// DefaultProviders returns one provider per feature column, in column order
func DefaultProviders() []Provider {
	lists := lexicon.DefaultLists()
	details := map[string]FeatureInfo{
		metrics.EmojiRate: {
			DetailedDescription: "Counts emoji grapheme clusters, including keycaps and joined sequences.\n" +
				"A few emoji that are common in casual human writing are ignored.",
			Normalization: perSentence,
			Patterns:      []string{"🚀", "✨", "✅", "👉"},
			Examples:      []string{"Ship it 🚀✨"},
		},
		metrics.BuzzwordRate: {
			DetailedDescription: "Counts marketing buzzwords, then subtracts benign phrases that contain\n" +
				"one of them. The result may be negative.",
			Normalization: perSentence,
			Patterns:      sample(lists.Buzzword),
			Examples:      []string{"A seamless, robust platform that empowers teams."},
		},
		metrics.IrregularDashes: {
			DetailedDescription: "Counts typographic dash glyphs and hyphens that are followed by a\n" +
				"non-space character.",
			Normalization: rawCount,
			Patterns:      []string{"— em dash", "– en dash", "‒ figure dash", "- hyphen"},
			Examples:      []string{"It works — mostly."},
		},
		metrics.IrregularQuotations: {
			DetailedDescription: "Counts curly quotation marks and apostrophes that keyboards rarely type.",
			Normalization:       perSentence,
			Patterns:            []string{"“ ”", "‘ ’"},
			Examples:            []string{"It’s “done”."},
		},
		metrics.Labels: {
			DetailedDescription: "Counts lines that consist of a short label ending in a colon.",
			Normalization:       rawCount,
			Examples:            []string{"Key takeaways:"},
		},
		metrics.IrregularEllipsis: {
			DetailedDescription: "Counts ellipses, both the single glyph and three dots.",
			Normalization:       rawCount,
			Patterns:            sample(lists.IrregularEllipsis),
			Examples:            []string{"And then… nothing."},
		},
		metrics.HTMLEscapeCount: {
			DetailedDescription: "Counts literal &amp; escapes left in pasted text.",
			Normalization:       rawCount,
			Patterns:            []string{"&amp;"},
			Examples:            []string{"Q&amp;A"},
		},
		metrics.NotJustCount: {
			DetailedDescription: "Counts the \"not just X, it's Y\" construction.",
			Normalization:       rawCount,
			Patterns:            sample(lists.NotJust),
			Examples:            []string{"It's not just a tool, it's a movement."},
		},
		metrics.DevlogCount: {
			DetailedDescription: "Counts devlog headings and update cues.",
			Normalization:       rawCount,
			Patterns:            sample(lists.Devlog),
		},
		metrics.IrregularMarkdown: {
			DetailedDescription: "Counts Markdown structure: headings, emphasis, links, block quotes,\n" +
				"thematic breaks and pasted bullet glyphs. Code is not counted.",
			Normalization: rawCount,
			Examples:      []string{"## Why it matters", "**bold** claims"},
		},
		metrics.Hashtags: {
			DetailedDescription: "Counts hashtag tokens.",
			Normalization:       rawCount,
			Examples:            []string{"#buildinpublic #ai"},
		},
		metrics.HumanInformality: {
			DetailedDescription: "Scores informal writing: broken English phrases minus overly formal\n" +
				"ones, plus sentences that start lowercase and a trailing comma.",
			Normalization: perSentence,
			Patterns:      sample(lists.BrokenEnglish),
			Examples:      []string{"idk tbh, it kinda works,"},
		},
		metrics.IncorrectPerspective: {
			DetailedDescription: "Counts plural first person and second person pronouns.",
			Normalization:       perSentence,
			Patterns:            sample(lists.IncorrectPerspective),
		},
		metrics.BackstoryCount: {
			DetailedDescription: "Counts narrative backstory cues minus benign phrases that contain them.\n" +
				"The result may be negative.",
			Normalization: rawCount,
			Patterns:      sample(lists.Backstory),
		},
		metrics.IrregularArrows: {
			DetailedDescription: "Counts Unicode arrow glyphs.",
			Normalization:       rawCount,
			Patterns:            []string{"→", "⇒", "➔"},
			Examples:            []string{"Input → Output"},
		},
	}

	schema := features.Default()
	out := make([]Provider, 0, len(schema.Columns))
	for _, c := range schema.Columns {
		info := details[c.Name]
		info.Name = c.Name
		info.ShortDescription = c.Description
		info.Weights = weightsFor(c.Name)
		out = append(out, featureProvider{info: info})
	}
	return out
}

func sample(patterns []string) []string {
	if len(patterns) > samplePatterns {
		patterns = patterns[:samplePatterns]
	}
	return patterns
}
