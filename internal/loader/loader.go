package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docbrief/internal/document"
	"github.com/dgallion1/docbrief/internal/parser"
	"github.com/dgallion1/docbrief/internal/progress"
)

// ParserFunc resolves the extractor for a file name.
type ParserFunc func(filename string) (parser.Parser, error)

// Loader reads every eligible document of one folder into a Collection.
type Loader struct {
	Dir        string
	Extensions []string // Lower-case, with leading dot
	ParserFor  ParserFunc
	Observer   progress.Observer
}

// New returns a Loader using the built-in parsers.
func New(dir string, extensions []string, opts parser.Options, obs progress.Observer) *Loader {
	return &Loader{
		Dir:        dir,
		Extensions: extensions,
		ParserFor: func(filename string) (parser.Parser, error) {
			return parser.ForFile(filename, opts)
		},
		Observer: obs,
	}
}

// Load scans Dir non-recursively. Files that fail to extract are reported and
// skipped; files whose text is blank are dropped silently. A missing folder
// yields an empty collection.
func (l *Loader) Load() (*document.Collection, error) {
	obs := l.observer()
	docs := document.NewCollection()

	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return docs, nil
		}
		return nil, fmt.Errorf("read documents dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !l.eligible(entry.Name()) {
			continue
		}
		path := filepath.Join(l.Dir, entry.Name())

		text, err := l.extract(path, entry.Name())
		if err != nil {
			obs.Observe(progress.Event{
				Kind:     progress.DocumentSkipped,
				Document: entry.Name(),
				Path:     path,
				Err:      err,
			})
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs.Add(document.NewRecord(entry.Name(), text))
	}

	obs.Observe(progress.Event{
		Kind:    progress.DocumentsLoaded,
		Units:   docs.Len(),
		Path:    l.Dir,
		Message: fmt.Sprintf("%d characters", docs.TotalChars()),
	})
	return docs, nil
}

func (l *Loader) extract(path, name string) (string, error) {
	p, err := l.ParserFor(name)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	doc, err := parser.Parse(p, f, name)
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}

func (l *Loader) eligible(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range l.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (l *Loader) observer() progress.Observer {
	if l.Observer == nil {
		return progress.Nop
	}
	return l.Observer
}
