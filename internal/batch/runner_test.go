package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/dgallion1/docbrief/internal/document"
	"github.com/dgallion1/docbrief/internal/parser"
	"github.com/dgallion1/docbrief/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeParser yields n synthetic units, or err, or panics like a broken
// extraction library.
type fakeParser struct {
	units  int
	err    error
	panics bool
}

func (p fakeParser) Parse(_ io.Reader, filename string) (*document.Document, error) {
	if p.panics {
		panic("loading {3 0}: found int64 instead of objdef")
	}
	if p.err != nil {
		return nil, p.err
	}
	kind, err := parser.KindOf(filename)
	if err != nil {
		return nil, err
	}
	texts := make([]string, p.units)
	for i := range texts {
		texts[i] = fmt.Sprintf("unit %d of %s", i+1, filename)
	}
	return document.New(filename, kind, texts), nil
}

func newTestRunner(t *testing.T, parsers map[string]fakeParser) (*Runner, *progress.Recorder) {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "large_documents")
	require.NoError(t, os.MkdirAll(in, 0o755))
	for name := range parsers {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte("stub"), 0o644))
	}

	rec := &progress.Recorder{}
	r := NewRunner(in, filepath.Join(root, "chunked_documents"), 15, 100, parser.Options{}, rec)
	r.ParserFor = func(name string) (parser.Parser, error) {
		p, ok := parsers[name]
		if !ok {
			return nil, fmt.Errorf("no parser for %s", name)
		}
		return p, nil
	}
	return r, rec
}

func outputNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRun_NoInput(t *testing.T) {
	r, rec := newTestRunner(t, nil)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.NoInput)
	assert.Equal(t, 0, report.Found)

	events := rec.OfKind(progress.NoInput)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Message, r.InputDir)
	assert.DirExists(t, r.OutputDir)
}

func TestRun_CreatesMissingDirectories(t *testing.T) {
	root := t.TempDir()
	r := NewRunner(filepath.Join(root, "in"), filepath.Join(root, "out"), 15, 100, parser.Options{}, nil)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.NoInput)
	assert.DirExists(t, r.InputDir)
	assert.DirExists(t, r.OutputDir)
}

func TestRun_SplitsAndCopies(t *testing.T) {
	r, rec := newTestRunner(t, map[string]fakeParser{
		"big.pdf":    {units: 31},
		"small.pdf":  {units: 10},
		"long.docx":  {units: 250},
		"ignore.txt": {units: 5},
	})

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Found)
	assert.Equal(t, 2, report.PDFs)
	assert.Equal(t, 1, report.Words)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 3+1+3, report.Outputs)
	assert.Equal(t, 7, report.OutputFiles)

	assert.Equal(t, []string{
		"big_parte01de03.txt",
		"big_parte02de03.txt",
		"big_parte03de03.txt",
		"long_parte01de03.txt",
		"long_parte02de03.txt",
		"long_parte03de03.txt",
		"small.txt",
	}, outputNames(t, r.OutputDir))

	// PDFs before DOCX, each group by name.
	var order []string
	for _, d := range report.Documents {
		order = append(order, d.Name)
	}
	assert.Equal(t, []string{"big.pdf", "small.pdf", "long.docx"}, order)

	last, err := os.ReadFile(filepath.Join(r.OutputDir, "big_parte03de03.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(last), "DOCUMENT: big\nPART 3 of 3\nPages 31 to 31\n"))
	assert.Contains(t, string(last), "\n--- PAGE 31 ---\n")

	assert.Len(t, rec.OfKind(progress.ChunkWritten), 6)
	assert.Len(t, rec.OfKind(progress.DocumentCopied), 1)
	assert.Len(t, rec.OfKind(progress.DocumentDone), 2)
	assert.Len(t, rec.OfKind(progress.BatchDone), 1)
}

func TestRun_FailureIsIsolated(t *testing.T) {
	r, rec := newTestRunner(t, map[string]fakeParser{
		"a.pdf": {units: 20},
		"b.pdf": {err: errors.New("encrypted")},
		"c.pdf": {units: 5},
	})

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Found)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{
		"a_parte01de02.txt",
		"a_parte02de02.txt",
		"c.txt",
	}, outputNames(t, r.OutputDir))

	failed := rec.OfKind(progress.DocumentFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "b.pdf", failed[0].Document)
	assert.EqualError(t, failed[0].Err, "encrypted")
	assert.Equal(t, "encrypted", report.Documents[1].Error)
}

func TestRun_WriteFailureRemovesPartialOutput(t *testing.T) {
	r, _ := newTestRunner(t, map[string]fakeParser{
		"a.pdf": {units: 40},
	})
	require.NoError(t, os.MkdirAll(r.OutputDir, 0o755))
	// A directory in the way of part 2 makes its write fail.
	require.NoError(t, os.Mkdir(filepath.Join(r.OutputDir, "a_parte02de03.txt"), 0o755))

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.NoFileExists(t, filepath.Join(r.OutputDir, "a_parte01de03.txt"))
	assert.Equal(t, 0, report.OutputFiles)
}

func TestRun_ParserPanicIsIsolated(t *testing.T) {
	r, rec := newTestRunner(t, map[string]fakeParser{
		"a.pdf": {units: 3},
		"b.pdf": {panics: true},
		"c.pdf": {units: 4},
	})

	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"a.txt", "c.txt"}, outputNames(t, r.OutputDir))

	failed := rec.OfKind(progress.DocumentFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "b.pdf", failed[0].Document)
	assert.ErrorIs(t, failed[0].Err, parser.ErrMalformed)
	assert.Contains(t, report.Documents[1].Error, "found int64 instead of objdef")
	assert.Len(t, rec.OfKind(progress.BatchDone), 1)
}

func TestRun_EmptyDocumentIsSkipped(t *testing.T) {
	r, rec := newTestRunner(t, map[string]fakeParser{
		"empty.docx": {units: 0},
		"full.docx":  {units: 2},
	})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []string{"full.txt"}, outputNames(t, r.OutputDir))
	assert.True(t, report.Documents[0].Skipped)
	assert.Empty(t, report.Documents[0].Error)
	assert.Empty(t, rec.OfKind(progress.DocumentFailed))

	skipped := rec.OfKind(progress.DocumentSkipped)
	require.Len(t, skipped, 1)
	assert.Equal(t, "empty.docx", skipped[0].Document)
	assert.NoError(t, skipped[0].Err)
}

func TestRun_ContextCancelled(t *testing.T) {
	r, _ := newTestRunner(t, map[string]fakeParser{
		"a.pdf": {units: 3},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Documents)
}
