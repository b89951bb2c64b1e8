// Package batch runs the chunker over every large document of an input folder
// and writes the parts to an output folder.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/docbrief/internal/chunker"
	"github.com/dgallion1/docbrief/internal/document"
	"github.com/dgallion1/docbrief/internal/loader"
	"github.com/dgallion1/docbrief/internal/parser"
	"github.com/dgallion1/docbrief/internal/progress"
)

// DefaultExtensions are processed in this order: every PDF before any DOCX.
var DefaultExtensions = []string{".pdf", ".docx"}

// Runner holds the settings of one batch run.
type Runner struct {
	InputDir           string
	OutputDir          string
	PagesPerChunk      int
	ParagraphsPerChunk int
	Extensions         []string
	ParserFor          loader.ParserFunc
	Observer           progress.Observer
}

// NewRunner returns a Runner with the built-in parsers and default extensions.
func NewRunner(inputDir, outputDir string, pagesPerChunk, paragraphsPerChunk int, opts parser.Options, obs progress.Observer) *Runner {
	return &Runner{
		InputDir:           inputDir,
		OutputDir:          outputDir,
		PagesPerChunk:      pagesPerChunk,
		ParagraphsPerChunk: paragraphsPerChunk,
		Extensions:         DefaultExtensions,
		ParserFor: func(filename string) (parser.Parser, error) {
			return parser.ForFile(filename, opts)
		},
		Observer: obs,
	}
}

// DocumentResult describes what happened to one input file.
type DocumentResult struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Units   int      `json:"units"`
	Parts   int      `json:"parts"`
	Split   bool     `json:"split"`
	Files   []string `json:"files,omitempty"`
	Skipped bool     `json:"skipped,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Report summarises a run.
type Report struct {
	NoInput     bool             `json:"no_input"`
	Found       int              `json:"found"`
	PDFs        int              `json:"pdfs"`
	Words       int              `json:"words"`
	Outputs     int              `json:"outputs"`
	Failed      int              `json:"failed"`
	Skipped     int              `json:"skipped"`
	OutputFiles int              `json:"output_files"`
	Documents   []DocumentResult `json:"documents"`
}

// Guidance is the message emitted when the input folder holds nothing to split.
func Guidance(inputDir string) string {
	return fmt.Sprintf("no PDF or DOCX files found; place large documents in %s and run again", inputDir)
}

// Run processes every eligible file of InputDir. A failing document is
// reported and skipped; its partially written parts are removed. A document
// without text units writes nothing and counts as skipped. The run only
// returns an error when the folders are unusable or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	obs := r.observer()

	for _, dir := range []string{r.InputDir, r.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	files, err := r.scan()
	if err != nil {
		return nil, err
	}

	report := &Report{Found: len(files), Documents: []DocumentResult{}}
	for _, name := range files {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".pdf":
			report.PDFs++
		case ".docx":
			report.Words++
		}
	}

	if len(files) == 0 {
		report.NoInput = true
		obs.Observe(progress.Event{
			Kind:    progress.NoInput,
			Path:    r.InputDir,
			Message: Guidance(r.InputDir),
		})
		return report, nil
	}

	obs.Observe(progress.Event{
		Kind:    progress.BatchStarted,
		Units:   len(files),
		Path:    r.InputDir,
		Message: fmt.Sprintf("%d PDF, %d DOCX", report.PDFs, report.Words),
	})

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := r.processOne(name, obs)
		report.Documents = append(report.Documents, res)
		switch {
		case res.Error != "":
			report.Failed++
			continue
		case res.Skipped:
			report.Skipped++
			continue
		}
		report.Outputs += len(res.Files)
	}

	report.OutputFiles, err = countText(r.OutputDir)
	if err != nil {
		return report, err
	}

	obs.Observe(progress.Event{
		Kind:    progress.BatchDone,
		Units:   report.OutputFiles,
		Path:    r.OutputDir,
		Message: fmt.Sprintf("%d documents, %d failed", report.Found, report.Failed),
	})
	return report, nil
}

func (r *Runner) processOne(name string, obs progress.Observer) DocumentResult {
	res := DocumentResult{Name: name}
	path := filepath.Join(r.InputDir, name)

	fail := func(err error) DocumentResult {
		res.Error = err.Error()
		obs.Observe(progress.Event{
			Kind:     progress.DocumentFailed,
			Document: name,
			Path:     path,
			Err:      err,
		})
		return res
	}

	doc, err := r.parse(path, name)
	if err != nil {
		return fail(err)
	}
	res.Kind = string(doc.Kind)
	res.Units = len(doc.Units)

	obs.Observe(progress.Event{
		Kind:     progress.DocumentStarted,
		Document: name,
		Units:    len(doc.Units),
		Message:  doc.Kind.UnitLabel(),
	})

	chunks, err := chunker.ChunkDocument(doc, r.limitFor(doc.Kind))
	if err != nil {
		return fail(err)
	}
	if len(chunks) == 0 {
		res.Skipped = true
		obs.Observe(progress.Event{
			Kind:     progress.DocumentSkipped,
			Document: name,
			Path:     path,
			Message:  "no text units extracted",
		})
		return res
	}

	written := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out := filepath.Join(r.OutputDir, c.FileName)
		if err := os.WriteFile(out, []byte(c.Text), 0o644); err != nil {
			removeAll(written)
			return fail(fmt.Errorf("write %s: %w", c.FileName, err))
		}
		written = append(written, out)

		if c.Split {
			obs.Observe(progress.Event{
				Kind:     progress.ChunkWritten,
				Document: name,
				Part:     c.Part,
				Total:    c.Total,
				Path:     out,
				Message:  fmt.Sprintf("%ss %d to %d", doc.Kind.UnitLabel(), c.First+1, c.Last+1),
			})
		}
	}

	res.Parts = len(chunks)
	res.Split = chunks[0].Split
	for _, c := range chunks {
		res.Files = append(res.Files, c.FileName)
	}

	if res.Split {
		obs.Observe(progress.Event{
			Kind:     progress.DocumentDone,
			Document: name,
			Units:    res.Units,
			Total:    res.Parts,
			Path:     r.OutputDir,
		})
	} else {
		obs.Observe(progress.Event{
			Kind:     progress.DocumentCopied,
			Document: name,
			Units:    res.Units,
			Path:     written[0],
			Message:  "small document, not split",
		})
	}
	return res
}

func (r *Runner) parse(path, name string) (*document.Document, error) {
	p, err := r.ParserFor(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return parser.Parse(p, f, name)
}

func (r *Runner) limitFor(kind document.Kind) int {
	if kind.Paginated() {
		return r.PagesPerChunk
	}
	return r.ParagraphsPerChunk
}

// scan lists eligible files grouped by extension order, each group sorted by name.
func (r *Runner) scan() ([]string, error) {
	entries, err := os.ReadDir(r.InputDir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	exts := r.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var files []string
	for _, ext := range exts {
		var group []string
		for _, e := range entries {
			if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
				group = append(group, e.Name())
			}
		}
		sort.Strings(group)
		files = append(files, group...)
	}
	return files, nil
}

func (r *Runner) observer() progress.Observer {
	if r.Observer == nil {
		return progress.Nop
	}
	return r.Observer
}

func countText(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read output dir: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			n++
		}
	}
	return n, nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
