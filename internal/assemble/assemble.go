// Package assemble builds the bounded document context embedded in prompts.
//
// Both caps are raw character prefixes: an excerpt may end mid-word and the
// global cap may cut through a delimiter block. That is accepted behaviour.
package assemble

import (
	"strings"

	"github.com/dgallion1/docbrief/internal/document"
	"github.com/dustin/go-humanize"
)

// Rule frames the header of every document block.
var Rule = strings.Repeat("=", 70)

// Options bounds the assembled context. A cap <= 0 disables that cap.
type Options struct {
	PerDocCap int  // Characters kept from each document
	GlobalCap int  // Characters kept from the whole context
	ShowSize  bool // Add a "Size: N characters" line to each header
}

// DefaultOptions matches the knowledge-base limits used for prompts.
func DefaultOptions() Options {
	return Options{PerDocCap: 12000, GlobalCap: 80000, ShowSize: true}
}

// Assemble concatenates one delimited excerpt per document, in collection
// order, and truncates the result to GlobalCap characters.
func Assemble(docs *document.Collection, opts Options) string {
	records := docs.Records()
	if len(records) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(records))
	for _, r := range records {
		blocks = append(blocks, Block(r, opts))
	}
	return Truncate(strings.Join(blocks, "\n"), opts.GlobalCap)
}

// Block wraps the capped excerpt of one document in its delimiter block.
func Block(r document.Record, opts Options) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(Rule)
	sb.WriteString("\nDOCUMENT: ")
	sb.WriteString(r.Name)
	sb.WriteString("\n")
	if opts.ShowSize {
		sb.WriteString("Size: ")
		sb.WriteString(humanize.Comma(int64(r.CharCount)))
		sb.WriteString(" characters\n")
	}
	sb.WriteString(Rule)
	sb.WriteString("\n\n")
	sb.WriteString(Truncate(r.Text, opts.PerDocCap))
	sb.WriteString("\n\n")
	return sb.String()
}

// Truncate returns the first n characters of s. n <= 0 returns s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		// len(s) counts bytes, which is never fewer than runes.
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
