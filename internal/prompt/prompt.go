// Package prompt turns the document knowledge base and a few user parameters
// into a long-context prompt for manual submission to a chat assistant.
package prompt

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/docbrief/internal/assemble"
	"github.com/dgallion1/docbrief/internal/document"
	"github.com/dustin/go-humanize"
)

// ErrNoDocuments is returned when the knowledge base is empty.
var ErrNoDocuments = errors.New("no documents loaded")

// Kinds of generated prompt.
const (
	KindMeeting = "meeting"
	KindPanel   = "panel"
)

// Result is a generated prompt plus the figures shown alongside it.
type Result struct {
	Kind         string `json:"kind"`
	Prompt       string `json:"prompt"`
	Context      string `json:"-"`
	Documents    int    `json:"documents"`
	ContextChars int    `json:"context_chars"`
	ApproxTokens int    `json:"approx_tokens"`
	FileName     string `json:"file_name"`
}

// now is replaced in tests.
var now = time.Now

// ApproxTokens estimates a token count as one token per four characters.
func ApproxTokens(chars int) int {
	return chars / 4
}

// BuildMeeting creates the briefing prompt for a meeting. The context lists
// every document with its size.
func BuildMeeting(docs *document.Collection, req MeetingRequest, caps assemble.Options) (*Result, error) {
	req = req.normalized(now())
	if err := check(req); err != nil {
		return nil, err
	}
	if docs.Len() == 0 {
		return nil, ErrNoDocuments
	}

	caps.ShowSize = true
	ctx := assemble.Assemble(docs, caps)
	chars := utf8.RuneCountInString(ctx)

	objectives := req.Objectives
	if objectives == "" {
		objectives = "Map opportunities and align positions"
	}

	var sb strings.Builder
	sb.WriteString("You are a specialist assistant preparing meeting briefings from a curated set of reference documents.\n\n")
	sb.WriteString(`CRITICAL RESPONSE RULES:
1. Use ONLY information from the documents provided below
2. ALWAYS cite the source: "According to [document name], ..."
3. Use EXACT figures from the documents (do not invent)
4. If there is no specific information, say so clearly
5. Prioritise information from official position papers
6. When several documents mention something, synthesise and show where they converge

`)
	sb.WriteString("MEETING INFORMATION:\n")
	fmt.Fprintf(&sb, "- Organization: %s\n", req.Organization)
	fmt.Fprintf(&sb, "- Date: %s\n", req.Date)
	fmt.Fprintf(&sb, "- Type: %s\n", req.Type.Label())
	fmt.Fprintf(&sb, "- Topics: %s\n", req.Topics)
	fmt.Fprintf(&sb, "- Objectives: %s\n\n", objectives)
	fmt.Fprintf(&sb, "COMPLETE DOCUMENTS (%d documents, ~%s characters):\n\n", docs.Len(), humanize.Comma(int64(chars)))
	sb.WriteString(ctx)
	sb.WriteString("\n\nTASK:\nCreate a structured executive briefing for this meeting.\n\n")
	sb.WriteString("BRIEFING STRUCTURE:\n")
	sb.WriteString(meetingSections(req.Detail))
	sb.WriteString(`
FORMAT:
- Use markdown with headers (##, ###) and bullet points
- Every important statement must include [Source: document_name]
- Be specific and practical
- Focus on ACTIONABLE information

BRIEFING:
`)

	return &Result{
		Kind:         KindMeeting,
		Prompt:       sb.String(),
		Context:      ctx,
		Documents:    docs.Len(),
		ContextChars: chars,
		ApproxTokens: ApproxTokens(chars),
		FileName:     MeetingFileName(req.Organization, req.Date),
	}, nil
}

// BuildPanel creates the preparation prompt for a panel talk. The context
// omits document sizes.
func BuildPanel(docs *document.Collection, req PanelRequest, caps assemble.Options) (*Result, error) {
	req = req.normalized(now())
	if err := check(req); err != nil {
		return nil, err
	}
	if docs.Len() == 0 {
		return nil, ErrNoDocuments
	}

	caps.ShowSize = false
	ctx := assemble.Assemble(docs, caps)
	chars := utf8.RuneCountInString(ctx)

	duration := durationLabel(req.Duration)
	audience := orDefault(req.Audience, "sector professionals")

	var sb strings.Builder
	sb.WriteString("You are a communication coach preparing speakers for panels, working from a curated set of reference documents.\n\n")
	sb.WriteString("CRITICAL RULES:\n")
	sb.WriteString("1. Use ONLY information from the documents provided\n")
	sb.WriteString("2. Cite specific sources: [Source: document_name]\n")
	sb.WriteString("3. Focus on CLEAR and IMPACTFUL communication\n")
	fmt.Fprintf(&sb, "4. Fit the available time (%s)\n", duration)
	fmt.Fprintf(&sb, "5. Consider the audience: %s\n\n", audience)

	sb.WriteString("PANEL:\n")
	fmt.Fprintf(&sb, "- Title: %s\n", req.Title)
	fmt.Fprintf(&sb, "- Event: %s\n", req.Event)
	fmt.Fprintf(&sb, "- Date: %s\n", req.Date)
	fmt.Fprintf(&sb, "- Your role: %s\n", req.Role.Label())
	fmt.Fprintf(&sb, "- Duration: %s\n", duration)
	fmt.Fprintf(&sb, "- Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "- Audience: %s\n", audience)
	fmt.Fprintf(&sb, "- Other panelists: %s\n", orDefault(req.OtherPanelists, "Not provided"))
	fmt.Fprintf(&sb, "- Desired key message: %s\n\n", orDefault(req.KeyMessage, "To be defined based on the documents"))

	fmt.Fprintf(&sb, "DOCUMENTS (%d documents):\n\n", docs.Len())
	sb.WriteString(ctx)
	sb.WriteString("\n\nTASK:\nCreate a complete, practical preparation for this panel.\n\n")
	sb.WriteString("STRUCTURE:\n")
	sb.WriteString(panelSections(req.Level, duration))
	sb.WriteString(`
GUIDELINES:
- Be PRACTICAL and ACTIONABLE
- Think in storytelling, not only data
- Include natural transitions
- Prepare for the unexpected
- Use concrete data from the documents

PREPARATION:
`)

	return &Result{
		Kind:         KindPanel,
		Prompt:       sb.String(),
		Context:      ctx,
		Documents:    docs.Len(),
		ContextChars: chars,
		ApproxTokens: ApproxTokens(chars),
		FileName:     PanelFileName(req.Title, req.Date),
	}, nil
}

// MeetingFileName names the downloadable briefing prompt.
func MeetingFileName(organization, date string) string {
	return fmt.Sprintf("briefing_%s_%s.txt", strings.ReplaceAll(organization, " ", "_"), date)
}

// PanelFileName names the downloadable panel prompt, using at most the first
// 30 characters of the title.
func PanelFileName(title, date string) string {
	short := assemble.Truncate(title, 30)
	return fmt.Sprintf("panel_%s_%s.txt", strings.ReplaceAll(short, " ", "_"), date)
}

// ChatURL links to a chat assistant pre-filled with the first limit
// characters of the prompt. The full prompt rarely fits in a URL.
func ChatURL(base, prompt string, limit int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse chat url: %w", err)
	}
	// Spaces as %20, not "+".
	q := strings.ReplaceAll(url.QueryEscape(assemble.Truncate(prompt, limit)), "+", "%20")
	u.RawQuery = "q=" + q
	return u.String(), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
