package prompt

import "fmt"

// MeetingType is the kind of meeting a briefing is prepared for.
type MeetingType string

const (
	MeetingMapping   MeetingType = "mapping"
	MeetingPanel     MeetingType = "panel"
	MeetingTechnical MeetingType = "technical"
	MeetingWorkshop  MeetingType = "workshop"
	MeetingBilateral MeetingType = "bilateral"
)

func (t MeetingType) Label() string {
	switch t {
	case MeetingPanel:
		return "Panel"
	case MeetingTechnical:
		return "Technical call"
	case MeetingWorkshop:
		return "Workshop"
	case MeetingBilateral:
		return "Bilateral"
	default:
		return "Mapping meeting"
	}
}

// Detail is the depth of a meeting briefing.
type Detail string

const (
	DetailQuick    Detail = "quick"
	DetailStandard Detail = "standard"
	DetailComplete Detail = "complete"
)

// Level is the depth of a panel preparation.
type Level string

const (
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Role is the speaker's part in a panel.
type Role string

const (
	RolePanelist  Role = "panelist"
	RoleModerator Role = "moderator"
	RoleKeynote   Role = "keynote"
)

func (r Role) Label() string {
	switch r {
	case RoleModerator:
		return "Moderator"
	case RoleKeynote:
		return "Keynote speaker"
	default:
		return "Panelist"
	}
}

// Durations lists the allowed speaking slots, in minutes.
var Durations = []int{5, 10, 15, 20}

func durationLabel(minutes int) string {
	return fmt.Sprintf("%d minutes", minutes)
}

func meetingSections(d Detail) string {
	switch d {
	case DetailQuick:
		return `
1. Strategic objectives (2-3 points)
2. Relevant positions (cite specific documents)
3. 3 main talking points
`
	case DetailComplete:
		return `
1. Strategic objectives
2. Detailed context about the organization
3. Relevant positions (with literal quotes from the documents)
4. 7 strategic talking points
5. 5+ likely questions with prepared answers
6. Strategic considerations (opportunities and risks)
7. Follow-up action items
`
	default:
		return `
1. Strategic objectives
2. Context about the organization
3. Relevant positions (ALWAYS cite the source document)
4. 5 strategic talking points
5. 3-4 likely questions and answers
`
	}
}

func panelSections(l Level, duration string) string {
	switch l {
	case LevelBasic:
		return `
1. Core message (one impactful sentence)
2. 3 key points for your talk
3. 2-3 supporting data points from the documents
4. Suggested opening
5. Suggested closing
`
	case LevelAdvanced:
		return `
1. Complete strategic narrative
2. 7-10 lines of argument
3. Data, evidence and cases (citing documents)
4. Several opening options
5. Q&A bank (10+ questions)
6. Soundbites for media and social networks
7. Closing variations
8. Minute-by-minute script
9. Handling debates and counter-arguments
`
	default:
		return fmt.Sprintf(`
1. Core message and narrative
2. 5 structured main points
3. Data and evidence (with sources)
4. Impactful opening
5. Possible questions from the moderator or audience
6. Memorable closing
7. Time structure (%s)
`, duration)
	}
}
