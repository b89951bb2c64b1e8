package document

import (
	"path/filepath"
	"strings"
)

// Kind is the closed set of document formats the extractors understand.
type Kind string

const (
	KindPDF      Kind = "pdf"
	KindDOCX     Kind = "docx"
	KindText     Kind = "text"
	KindMarkdown Kind = "markdown"
	KindHTML     Kind = "html"
)

// Paginated reports whether units of this kind are pages.
func (k Kind) Paginated() bool {
	return k == KindPDF
}

// UnitLabel names one unit of this kind, e.g. "page".
func (k Kind) UnitLabel() string {
	switch k {
	case KindPDF:
		return "page"
	case KindText:
		return "line"
	default:
		return "paragraph"
	}
}

// Separator is placed between unit texts when rebuilding the full text.
func (k Kind) Separator() string {
	switch k {
	case KindPDF:
		return ""
	case KindMarkdown, KindHTML:
		return "\n\n"
	default:
		return "\n"
	}
}

// Unit is one page or paragraph of a source document.
type Unit struct {
	Index int    // 0-based position in the source
	Text  string // Raw text, may be blank
}

// Document is the ordered unit sequence extracted from one file.
type Document struct {
	Name  string // File name, e.g. "report.pdf"
	Stem  string // File name without extension
	Kind  Kind
	Units []Unit
}

// New builds a Document from raw unit texts, numbering them in order.
func New(filename string, kind Kind, texts []string) *Document {
	doc := &Document{
		Name:  filename,
		Stem:  Stem(filename),
		Kind:  kind,
		Units: make([]Unit, len(texts)),
	}
	for i, t := range texts {
		doc.Units[i] = Unit{Index: i, Text: t}
	}
	return doc
}

// Text rebuilds the full extracted text.
func (d *Document) Text() string {
	var sb strings.Builder
	sep := d.Kind.Separator()
	for i, u := range d.Units {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(u.Text)
	}
	return sb.String()
}

// Stem strips the directory and the last extension from a file name.
func Stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Chunk is a contiguous run of units rendered as one output file.
type Chunk struct {
	Document string // Source document stem
	Part     int    // 1-based
	Total    int
	First    int  // First unit index, inclusive
	Last     int  // Last unit index, inclusive
	Split    bool // False for a small document copied whole
	FileName string
	Text     string
}
