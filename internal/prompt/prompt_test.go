package prompt

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docbrief/internal/assemble"
	"github.com/dgallion1/docbrief/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() *document.Collection {
	c := document.NewCollection()
	c.Add(document.NewRecord("policy.pdf", strings.Repeat("carbon ", 3000)))
	c.Add(document.NewRecord("notes.txt", "Short note about CBAM."))
	return c
}

func fixedNow(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestBuildMeeting(t *testing.T) {
	fixedNow(t)
	docs := testDocs()

	res, err := BuildMeeting(docs, MeetingRequest{
		Organization: "Petroleum Institute",
		Topics:       "SBCE, CBAM",
	}, assemble.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, KindMeeting, res.Kind)
	assert.Equal(t, 2, res.Documents)
	assert.Equal(t, "briefing_Petroleum_Institute_2026-03-14.txt", res.FileName)
	assert.Equal(t, res.ContextChars/4, res.ApproxTokens)

	assert.Contains(t, res.Prompt, "- Organization: Petroleum Institute\n")
	assert.Contains(t, res.Prompt, "- Date: 2026-03-14\n")
	assert.Contains(t, res.Prompt, "- Type: Mapping meeting\n")
	assert.Contains(t, res.Prompt, "- Objectives: Map opportunities and align positions\n")
	assert.Contains(t, res.Prompt, "Size: 21,000 characters")
	assert.Contains(t, res.Prompt, "5 strategic talking points")
	assert.Contains(t, res.Prompt, res.Context)
	assert.True(t, strings.HasSuffix(res.Prompt, "BRIEFING:\n"))

	// policy.pdf is capped at 12000 characters.
	assert.NotContains(t, res.Context, strings.Repeat("carbon ", 1800))
}

func TestBuildMeeting_DetailLevels(t *testing.T) {
	tests := []struct {
		detail Detail
		want   string
	}{
		{DetailQuick, "3 main talking points"},
		{DetailStandard, "3-4 likely questions and answers"},
		{DetailComplete, "Follow-up action items"},
	}
	for _, tt := range tests {
		t.Run(string(tt.detail), func(t *testing.T) {
			res, err := BuildMeeting(testDocs(), MeetingRequest{
				Organization: "Org",
				Topics:       "Topic",
				Detail:       tt.detail,
				Type:         MeetingWorkshop,
				Date:         "2026-01-02",
			}, assemble.DefaultOptions())
			require.NoError(t, err)
			assert.Contains(t, res.Prompt, tt.want)
			assert.Contains(t, res.Prompt, "- Type: Workshop\n")
		})
	}
}

func TestBuildMeeting_Validation(t *testing.T) {
	_, err := BuildMeeting(testDocs(), MeetingRequest{Organization: "  ", Topics: "x"}, assemble.DefaultOptions())
	assert.ErrorIs(t, err, ErrMissingField)
	assert.ErrorContains(t, err, "organization")

	_, err = BuildMeeting(testDocs(), MeetingRequest{}, assemble.DefaultOptions())
	assert.ErrorIs(t, err, ErrMissingField)
	assert.ErrorContains(t, err, "organization, topics")

	_, err = BuildMeeting(testDocs(), MeetingRequest{Organization: "a", Topics: "b", Detail: "exhaustive"}, assemble.DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = BuildMeeting(testDocs(), MeetingRequest{Organization: "a", Topics: "b", Date: "14/03/2026"}, assemble.DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestBuildMeeting_EmptyKnowledgeBase(t *testing.T) {
	_, err := BuildMeeting(document.NewCollection(), MeetingRequest{Organization: "a", Topics: "b"}, assemble.DefaultOptions())
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestBuildPanel(t *testing.T) {
	fixedNow(t)

	res, err := BuildPanel(testDocs(), PanelRequest{
		Title:    "Aviation Decarbonisation and Carbon Markets in Brazil",
		Event:    "Sustainable Aviation Summit",
		Topic:    "How do SBCE and CBAM affect aviation?",
		Duration: 15,
	}, assemble.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, KindPanel, res.Kind)
	assert.Equal(t, "panel_Aviation_Decarbonisation_and_C_2026-03-14.txt", res.FileName)
	assert.NotContains(t, res.Prompt, "Size: ")
	assert.Contains(t, res.Prompt, "- Your role: Panelist\n")
	assert.Contains(t, res.Prompt, "- Duration: 15 minutes\n")
	assert.Contains(t, res.Prompt, "- Audience: sector professionals\n")
	assert.Contains(t, res.Prompt, "- Other panelists: Not provided\n")
	assert.Contains(t, res.Prompt, "- Desired key message: To be defined based on the documents\n")
	assert.Contains(t, res.Prompt, "7. Time structure (15 minutes)")
	assert.Contains(t, res.Prompt, "DOCUMENTS (2 documents):")
}

func TestBuildPanel_Validation(t *testing.T) {
	_, err := BuildPanel(testDocs(), PanelRequest{Title: "t"}, assemble.DefaultOptions())
	assert.ErrorIs(t, err, ErrMissingField)
	assert.ErrorContains(t, err, "topic")

	_, err = BuildPanel(testDocs(), PanelRequest{Title: "t", Topic: "x", Duration: 7}, assemble.DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.ErrorContains(t, err, "duration_minutes=7")

	_, err = BuildPanel(testDocs(), PanelRequest{Title: "t", Topic: "x", Role: "host"}, assemble.DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestBuildPanel_Levels(t *testing.T) {
	res, err := BuildPanel(testDocs(), PanelRequest{Title: "t", Topic: "x", Level: LevelAdvanced, Role: RoleKeynote}, assemble.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, res.Prompt, "Minute-by-minute script")
	assert.Contains(t, res.Prompt, "- Your role: Keynote speaker\n")

	res, err = BuildPanel(testDocs(), PanelRequest{Title: "t", Topic: "x", Level: LevelBasic}, assemble.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, res.Prompt, "Suggested closing")
	assert.Contains(t, res.Prompt, "- Duration: 5 minutes\n")
}

func TestApproxTokens(t *testing.T) {
	assert.Equal(t, 0, ApproxTokens(3))
	assert.Equal(t, 20000, ApproxTokens(80000))
}

func TestChatURL(t *testing.T) {
	prompt := "Hello world & more " + strings.Repeat("x", 3000)

	link, err := ChatURL("https://chat.openai.com/", prompt, 2000)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://chat.openai.com/?q=Hello%20world%20%26%20more%20"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, prompt[:2000], u.Query().Get("q"))

	_, err = ChatURL("://bad", prompt, 10)
	assert.Error(t, err)
}
