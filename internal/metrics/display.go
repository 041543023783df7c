// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"fmt"
	"math"
	"strings"
)

const displayColumns = 2

// rowIndent lines up continuation rows under a 10-character caption that
// precedes the first row on the same line.
const rowIndent = "          "

// String lists the non-zero metrics by short name, two per line. Every row
// after the first starts with rowIndent.
func (m TextMetrics) String() string {
	var b strings.Builder
	cell := 0
	for _, f := range m.Fields() {
		if f.Value == 0 {
			continue
		}
		switch {
		case cell%displayColumns != 0:
			b.WriteString("\t\t")
		case cell > 0:
			b.WriteString(rowIndent)
		}
		fmt.Fprintf(&b, "%-10s%s", f.ShortName, FormatValue(f.Value))
		if cell%displayColumns == displayColumns-1 {
			b.WriteByte('\n')
		}
		cell++
	}
	return b.String()
}

// FormatValue prints whole numbers without decimals and everything else with
// one decimal place.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
