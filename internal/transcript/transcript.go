package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/teemow/meetfollow/internal/logging"
)

// ErrNotImplemented is returned by Live for every request. Transcript
// retrieval from Google Meet has no implementation yet.
var ErrNotImplemented = errors.New("meeting transcript retrieval is not implemented")

// MockText is the canned two-line transcript.
const MockText = `Alice: Let's schedule a follow-up meeting next Tuesday to finalize the model results.
Bob: Sure, 2 PM works for me.`

// Retriever returns the transcript text for a conference or event.
type Retriever interface {
	Transcript(ctx context.Context, conferenceID string) (string, error)
}

// Mock returns MockText for any conference.
type Mock struct {
	logger logging.Logger
}

// NewMock returns a Mock logging to logger (nil discards).
func NewMock(logger logging.Logger) *Mock {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Mock{logger: logger}
}

// Transcript returns MockText.
func (m *Mock) Transcript(ctx context.Context, conferenceID string) (string, error) {
	m.logger.Info("[MOCK] retrieving transcript", "conference_id", conferenceID)
	return MockText, nil
}

// Live is the real-mode retriever. It always fails with ErrNotImplemented.
type Live struct{}

// NewLive returns a Live retriever.
func NewLive() *Live {
	return &Live{}
}

// Transcript always returns an error wrapping ErrNotImplemented.
func (Live) Transcript(ctx context.Context, conferenceID string) (string, error) {
	return "", fmt.Errorf("transcript for %q: %w", conferenceID, ErrNotImplemented)
}

var (
	_ Retriever = (*Mock)(nil)
	_ Retriever = (*Live)(nil)
)
