package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docbrief/internal/document"
)

// ErrInvalidMax is returned when the per-chunk unit limit is not positive.
var ErrInvalidMax = errors.New("units per chunk must be positive")

// Rule separates a chunk header from its body.
var Rule = strings.Repeat("=", 70)

// Span is a half-open, 0-based range of units belonging to one part.
type Span struct {
	Part  int // 1-based
	Total int
	Start int
	End   int
}

// Len returns the number of units in the span.
func (s Span) Len() int { return s.End - s.Start }

// Plan partitions total units into parts of at most maxUnits units each.
// The spans cover [0, total) in order with no gaps or overlaps.
func Plan(total, maxUnits int) ([]Span, error) {
	if maxUnits <= 0 {
		return nil, ErrInvalidMax
	}
	if total <= 0 {
		return nil, nil
	}

	n := (total + maxUnits - 1) / maxUnits
	spans := make([]Span, 0, n)
	for i := 0; i < n; i++ {
		start := i * maxUnits
		end := start + maxUnits
		if end > total {
			end = total
		}
		spans = append(spans, Span{Part: i + 1, Total: n, Start: start, End: end})
	}
	return spans, nil
}

// Style controls how units are rendered inside a chunk.
type Style struct {
	Label string // Singular unit label, e.g. "page"
	Pages bool   // Emit a marker before every unit instead of dropping blank ones
}

// StyleFor returns the rendering style for a document kind.
func StyleFor(kind document.Kind) Style {
	return Style{Label: kind.UnitLabel(), Pages: kind.Paginated()}
}

// ChunkDocument splits a document using the style of its kind.
func ChunkDocument(doc *document.Document, maxUnits int) ([]document.Chunk, error) {
	return Split(doc.Stem, doc.Units, StyleFor(doc.Kind), maxUnits)
}

// Split groups units into labelled chunks of at most maxUnits units each.
//
// A sequence that already fits is returned as a single unsplit chunk named
// <stem>.txt without any header. An empty sequence yields no chunks.
func Split(stem string, units []document.Unit, style Style, maxUnits int) ([]document.Chunk, error) {
	spans, err := Plan(len(units), maxUnits)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, nil
	}

	if len(units) <= maxUnits {
		return []document.Chunk{{
			Document: stem,
			Part:     1,
			Total:    1,
			First:    0,
			Last:     len(units) - 1,
			FileName: stem + ".txt",
			Text:     renderWhole(units, style),
		}}, nil
	}

	chunks := make([]document.Chunk, 0, len(spans))
	for _, sp := range spans {
		chunks = append(chunks, document.Chunk{
			Document: stem,
			Part:     sp.Part,
			Total:    sp.Total,
			First:    sp.Start,
			Last:     sp.End - 1,
			Split:    true,
			FileName: PartFileName(stem, sp.Part, sp.Total),
			Text:     renderPart(stem, units[sp.Start:sp.End], sp, style),
		})
	}
	return chunks, nil
}

// PartFileName names the output file of one part of a split document.
func PartFileName(stem string, part, total int) string {
	return fmt.Sprintf("%s_parte%02dde%02d.txt", stem, part, total)
}

// PageMarker precedes every page inside a split page chunk.
func PageMarker(page int) string {
	return fmt.Sprintf("\n--- PAGE %d ---\n", page)
}

func renderWhole(units []document.Unit, style Style) string {
	if style.Pages {
		var sb strings.Builder
		for _, u := range units {
			sb.WriteString(u.Text)
			sb.WriteString("\n")
		}
		return sb.String()
	}

	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text
	}
	return strings.Join(texts, "\n")
}

func renderPart(stem string, units []document.Unit, sp Span, style Style) string {
	lines := []string{
		"DOCUMENT: " + stem,
		fmt.Sprintf("PART %d of %d", sp.Part, sp.Total),
		fmt.Sprintf("%s %d to %d", pluralTitle(style.Label), sp.Start+1, sp.End),
		Rule,
		"",
	}

	for _, u := range units {
		if style.Pages {
			lines = append(lines, PageMarker(u.Index+1), u.Text)
			continue
		}
		t := strings.TrimSpace(u.Text)
		if t != "" {
			lines = append(lines, t, "")
		}
	}
	return strings.Join(lines, "\n")
}

func pluralTitle(label string) string {
	if label == "" {
		return "Units"
	}
	return strings.ToUpper(label[:1]) + label[1:] + "s"
}
