// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics

// TextMetrics is the stylometric profile of one text.
//
// Rate fields are divided by the sentence count: EmojiRate, BuzzwordRate,
// IncorrectPerspective, HumanInformality and IrregularQuotations. Every other
// field is a raw count. BuzzwordRate and BackstoryCount are positive minus
// negative lexicon hits and may be below zero.
type TextMetrics struct {
	EmojiRate            float64 `json:"emoji_rate" yaml:"emoji_rate"`
	BuzzwordRate         float64 `json:"buzzword_rate" yaml:"buzzword_rate"`
	NotJustCount         float64 `json:"not_just_count" yaml:"not_just_count"`
	HTMLEscapeCount      float64 `json:"html_escape_count" yaml:"html_escape_count"`
	DevlogCount          float64 `json:"devlog_count" yaml:"devlog_count"`
	BackstoryCount       float64 `json:"backstory_count" yaml:"backstory_count"`
	IncorrectPerspective float64 `json:"incorrect_perspective" yaml:"incorrect_perspective"`
	HumanInformality     float64 `json:"human_informality" yaml:"human_informality"`
	IrregularEllipsis    float64 `json:"irregular_ellipsis" yaml:"irregular_ellipsis"`
	IrregularQuotations  float64 `json:"irregular_quotations" yaml:"irregular_quotations"`
	IrregularDashes      float64 `json:"irregular_dashes" yaml:"irregular_dashes"`
	IrregularMarkdown    float64 `json:"irregular_markdown" yaml:"irregular_markdown"`
	IrregularArrows      float64 `json:"irregular_arrows" yaml:"irregular_arrows"`
	Labels               float64 `json:"labels" yaml:"labels"`
	Hashtags             float64 `json:"hashtags" yaml:"hashtags"`
}

// Field is one named metric value.
type Field struct {
	Name      string
	ShortName string
	Value     float64
}

// Field names as they appear in JSON output.
const (
	EmojiRate            = "emoji_rate"
	BuzzwordRate         = "buzzword_rate"
	NotJustCount         = "not_just_count"
	HTMLEscapeCount      = "html_escape_count"
	DevlogCount          = "devlog_count"
	BackstoryCount       = "backstory_count"
	IncorrectPerspective = "incorrect_perspective"
	HumanInformality     = "human_informality"
	IrregularEllipsis    = "irregular_ellipsis"
	IrregularQuotations  = "irregular_quotations"
	IrregularDashes      = "irregular_dashes"
	IrregularMarkdown    = "irregular_markdown"
	IrregularArrows      = "irregular_arrows"
	Labels               = "labels"
	Hashtags             = "hashtags"
)

// Fields returns the metrics in display order.
func (m TextMetrics) Fields() []Field {
	return []Field{
		{EmojiRate, "emoji", m.EmojiRate},
		{NotJustCount, "not_just", m.NotJustCount},
		{BuzzwordRate, "buzzword", m.BuzzwordRate},
		{HTMLEscapeCount, "html", m.HTMLEscapeCount},
		{IrregularEllipsis, "irr_ell", m.IrregularEllipsis},
		{IrregularQuotations, "irr_quote", m.IrregularQuotations},
		{IrregularDashes, "irr_dash", m.IrregularDashes},
		{IrregularArrows, "irr_arr", m.IrregularArrows},
		{IrregularMarkdown, "irr_md", m.IrregularMarkdown},
		{HumanInformality, "informal", m.HumanInformality},
		{IncorrectPerspective, "bad_per", m.IncorrectPerspective},
		{DevlogCount, "devlog", m.DevlogCount},
		{Labels, "labels", m.Labels},
		{Hashtags, "hashtags", m.Hashtags},
		{BackstoryCount, "backstory", m.BackstoryCount},
	}
}

// Value returns the metric with the given JSON name.
func (m TextMetrics) Value(name string) (float64, bool) {
	for _, f := range m.Fields() {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}
