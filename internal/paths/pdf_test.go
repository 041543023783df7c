// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("report.pdf"))
	assert.True(t, IsPDF("REPORT.PDF"))
	assert.False(t, IsPDF("report.md"))
}

func TestJoinRow(t *testing.T) {
	row := []pdf.Text{
		{S: "world", X: 40, W: 25, FontSize: 10},
		{S: "Hello", X: 0, W: 30, FontSize: 10},
		{S: "!", X: 65.5, W: 3, FontSize: 10},
	}
	assert.Equal(t, "Hello world!", joinRow(row))
	assert.Empty(t, joinRow(nil))
}

func TestCleanLines(t *testing.T) {
	assert.Equal(t, "a b\nc", cleanLines("  a \t  b \n\n   \n c  "))
}

func TestReadPDFRejectsInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	_, err := ReadText(path)
	assert.ErrorContains(t, err, "error opening PDF")

	_, err = ReadPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
