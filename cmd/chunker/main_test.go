package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDirs(t *testing.T) (in, out string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("DOCBRIEF_CONFIG", "")
	t.Setenv("DOCBRIEF_LOG_LEVEL", "error")
	t.Setenv("DOCBRIEF_DOCUMENTS_DIR", filepath.Join(root, "documents"))
	return filepath.Join(root, "large"), filepath.Join(root, "chunked")
}

func TestRun_NoInputPrintsGuidance(t *testing.T) {
	in, out := setupDirs(t)

	var stdout bytes.Buffer
	code := run([]string{"--input", in, "--output", out}, &stdout)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Place large PDF or DOCX files in "+in)
	assert.DirExists(t, in)
	assert.DirExists(t, out)
}

func TestRun_SplitsWordDocument(t *testing.T) {
	in, out := setupDirs(t)
	require.NoError(t, os.MkdirAll(in, 0o755))

	w := docx.New().WithDefaultTheme()
	for i := 1; i <= 150; i++ {
		w.AddParagraph().AddText(fmt.Sprintf("Paragraph %d", i))
	}
	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(in, "memo.docx"), buf.Bytes(), 0o644))

	var stdout bytes.Buffer
	code := run([]string{"-i", in, "-o", out, "--paragraphs", "100"}, &stdout)
	require.Equal(t, 0, code, stdout.String())

	assert.FileExists(t, filepath.Join(out, "memo_parte01de02.txt"))
	assert.FileExists(t, filepath.Join(out, "memo_parte02de02.txt"))
	assert.Contains(t, stdout.String(), "split   memo.docx")
	assert.Contains(t, stdout.String(), "Done: 2 files in "+out)

	first, err := os.ReadFile(filepath.Join(out, "memo_parte01de02.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "DOCUMENT: memo\nPART 1 of 2\nParagraphs 1 to 100\n")
	assert.Contains(t, string(first), "Paragraph 1\n\nParagraph 2\n\n")
}

func TestRun_RejectsBadFlags(t *testing.T) {
	in, out := setupDirs(t)
	var stdout bytes.Buffer
	assert.Equal(t, 2, run([]string{"-i", in, "-o", out, "--pages", "0"}, &stdout))
	assert.Equal(t, 2, run([]string{"--unknown"}, &stdout))
}
