package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docbrief/internal/document"
)

var (
	// ErrUnsupported is returned for file extensions outside the known kinds.
	ErrUnsupported = errors.New("unsupported file extension")
	// ErrMalformed wraps a panic raised by an extraction library.
	ErrMalformed = errors.New("malformed document")
)

// Parser extracts the ordered text units of one document.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions maps every handled extension to its document kind.
var SupportedExtensions = map[string]document.Kind{
	".pdf":      document.KindPDF,
	".docx":     document.KindDOCX,
	".txt":      document.KindText,
	".md":       document.KindMarkdown,
	".markdown": document.KindMarkdown,
	".html":     document.KindHTML,
	".htm":      document.KindHTML,
}

// Options tunes the extractors that have optional fallbacks.
type Options struct {
	PDFFallbackPdftotext bool
}

// KindOf returns the document kind for a filename.
func KindOf(filename string) (document.Kind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := SupportedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	return kind, nil
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	kind, err := KindOf(filename)
	if err != nil {
		return nil, err
	}
	return ForKind(kind, opts), nil
}

// ForKind returns the parser for a document kind.
func ForKind(kind document.Kind, opts Options) Parser {
	switch kind {
	case document.KindPDF:
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}
	case document.KindDOCX:
		return &DOCXParser{}
	case document.KindMarkdown:
		return &MarkdownParser{}
	case document.KindHTML:
		return &HTMLParser{}
	default:
		return &TextParser{}
	}
}

// Parse runs p over r. A panic inside p is returned as an ErrMalformed error
// so that one broken file cannot take down the caller.
func Parse(p Parser, r io.Reader, filename string) (doc *document.Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("%w: %s: %v", ErrMalformed, filename, rec)
		}
	}()
	return p.Parse(r, filename)
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	_, err := KindOf(filename)
	return err == nil
}
