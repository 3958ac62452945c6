package calendar

import (
	"context"
	"time"

	"github.com/teemow/meetfollow/internal/logging"
)

// Canned identifiers returned by MockClient.
const (
	MockEventID      = "abc123"
	MockFollowupID   = "event123"
	MockFollowupLink = "https://calendar.google.com/mock"
)

// MockEvent returns the fixed sample meeting. Each call returns a fresh copy.
func MockEvent() *Event {
	return &Event{
		ID:      MockEventID,
		Title:   "Weekly AI Research Sync",
		Start:   time.Date(2025, time.October, 25, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2025, time.October, 25, 11, 0, 0, 0, time.UTC),
		Creator: Person{Name: "Alice", Email: "alice@example.com"},
		Attendees: []Person{
			{Name: "Bob", Email: "bob@example.com"},
		},
	}
}

// MockClient serves canned data and never touches the network.
type MockClient struct {
	logger logging.Logger
}

var _ Service = (*MockClient)(nil)

// NewMockClient returns a MockClient logging to logger (nil discards).
func NewMockClient(logger logging.Logger) *MockClient {
	if logger == nil {
		logger = logging.Discard()
	}
	return &MockClient{logger: logger}
}

// GetEvent returns MockEvent regardless of eventID.
func (m *MockClient) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	m.logger.Info("[MOCK] getting calendar event", logging.EventID(eventID))
	return MockEvent(), nil
}

// CreateFollowup logs the request and returns the canned follow-up.
// Attendees are ignored.
func (m *MockClient) CreateFollowup(ctx context.Context, req FollowupRequest) (*FollowupEvent, error) {
	m.logger.Info("[MOCK] creating calendar event", "title", req.Title, "start", req.Start.Format(time.RFC3339))
	return &FollowupEvent{ID: MockFollowupID, HTMLLink: MockFollowupLink}, nil
}
