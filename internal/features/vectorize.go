// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package features

import "sonai/internal/metrics"

// Vectorize maps one TextMetrics onto a weighted feature row.
func (s Schema) Vectorize(m metrics.TextMetrics) Vector {
	raw := Vector{
		m.EmojiRate,
		m.BuzzwordRate,
		m.IrregularDashes,
		m.IrregularQuotations,
		m.Labels,
		m.IrregularEllipsis,
		m.HTMLEscapeCount,
		m.NotJustCount,
		m.DevlogCount,
		m.IrregularMarkdown,
		m.Hashtags,
		m.HumanInformality,
		m.IncorrectPerspective,
		m.BackstoryCount,
		m.IrregularArrows,
	}

	var v Vector
	for i := range raw {
		v[i] = raw[i] * s.Columns[i].Weight
	}
	return v
}

// Matrix vectorizes a batch, one row per input, in order.
func (s Schema) Matrix(ms []metrics.TextMetrics) []Vector {
	rows := make([]Vector, len(ms))
	for i, m := range ms {
		rows[i] = s.Vectorize(m)
	}
	return rows
}
