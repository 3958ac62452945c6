package analysis

import (
	"context"

	"github.com/teemow/meetfollow/internal/calendar"
)

// Highlight is something one attendee said that is worth surfacing.
type Highlight struct {
	Attendee string `json:"attendee"`
	Message  string `json:"message"`
}

// ProposedMeeting is a follow-up meeting suggested by the analysis.
type ProposedMeeting struct {
	EventTitle     string `json:"event_title"`
	EventInviteURL string `json:"event_invite_url"`
}

// Result is the outcome of analyzing one meeting.
//
// Live only fills Summary; the structured fields are populated by Mock.
type Result struct {
	Summary         string            `json:"summary"`
	Highlights      []Highlight       `json:"highlights,omitempty"`
	NextSteps       []string          `json:"next_steps,omitempty"`
	MeetingsCreated []ProposedMeeting `json:"meetings_created,omitempty"`
}

// Analyzer summarizes a meeting from its event metadata and transcript.
type Analyzer interface {
	Analyze(ctx context.Context, event *calendar.Event, transcript string) (*Result, error)
}
