package analysis

import (
	"context"

	"github.com/teemow/meetfollow/internal/calendar"
	"github.com/teemow/meetfollow/internal/logging"
)

// MockResult returns the canned analysis. Each call returns a fresh copy.
func MockResult() *Result {
	return &Result{
		Summary: "Follow-up meeting required to finalize results.",
		Highlights: []Highlight{
			{Attendee: "Alice", Message: "Schedule follow-up next Tuesday"},
		},
		NextSteps: []string{"Organize follow-up meeting", "Prepare presentation slides"},
		MeetingsCreated: []ProposedMeeting{
			{EventTitle: "Follow-up: Model Results", EventInviteURL: "https://mock.calendar/event123"},
		},
	}
}

// Mock returns MockResult for any input.
type Mock struct {
	logger logging.Logger
}

var _ Analyzer = (*Mock)(nil)

// NewMock returns a Mock logging to logger (nil discards).
func NewMock(logger logging.Logger) *Mock {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Mock{logger: logger}
}

// Analyze returns MockResult.
func (m *Mock) Analyze(ctx context.Context, event *calendar.Event, transcript string) (*Result, error) {
	m.logger.Info("[MOCK] analyzing transcript")
	return MockResult(), nil
}
