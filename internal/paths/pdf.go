// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFPages limits how much of a long document is read
const maxPDFPages = 50

// IsPDF reports whether path names a PDF document
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// ReadPDF extracts the running text of a PDF document. Pages are read in
// order and separated by a blank line so each page starts a new paragraph.
func ReadPDF(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxFileBytes {
		return "", fmt.Errorf("%s exceeds the %d byte input limit", path, MaxFileBytes)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening PDF %s: %w", path, err)
	}
	defer f.Close()

	pages := min(r.NumPage(), maxPDFPages)
	var parts []string
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil {
			continue
		}
		if text = cleanLines(text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text found in PDF %s", path)
	}
	return strings.Join(parts, "\n\n"), nil
}

// pageText reads a page row by row, falling back to plain text when the
// page has no row layout.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	kept := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			kept = append(kept, row)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return averageY(kept[i].Content) < averageY(kept[j].Content)
	})

	var b strings.Builder
	for _, row := range kept {
		line := joinRow(row.Content)
		if strings.TrimSpace(line) != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func averageY(texts []pdf.Text) float64 {
	if len(texts) == 0 {
		return 0
	}
	var total float64
	for _, t := range texts {
		total += t.Y
	}
	return total / float64(len(texts))
}

// joinRow orders a row left to right and inserts a space wherever the gap
// between two runs is wider than a fifth of the font size.
func joinRow(texts []pdf.Text) string {
	if len(texts) == 0 {
		return ""
	}
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var b strings.Builder
	for i, t := range sorted {
		b.WriteString(t.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		gap := sorted[i+1].X - (t.X + t.W)
		if gap > fontSize*0.2 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// cleanLines trims every line, collapses runs of blanks inside a line and
// drops empty lines.
func cleanLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
