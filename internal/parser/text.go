package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docbrief/internal/document"
)

// TextParser handles plain text files. Each line is one unit, so
// Document.Text returns the file content unchanged.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	if len(data) == 0 {
		return document.New(filename, document.KindText, nil), nil
	}
	lines := strings.Split(string(data), "\n")
	return document.New(filename, document.KindText, lines), nil
}
