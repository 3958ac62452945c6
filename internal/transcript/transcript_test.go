package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_Transcript(t *testing.T) {
	text, err := NewMock(nil).Transcript(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, MockText, text)
	assert.Contains(t, text, "Alice:")
	assert.Contains(t, text, "Bob:")
}

func TestLive_AlwaysNotImplemented(t *testing.T) {
	inputs := []string{"", "abc123", "spaces/xyz/conferenceRecords/1", "🙂"}

	for _, id := range inputs {
		t.Run(id, func(t *testing.T) {
			text, err := NewLive().Transcript(context.Background(), id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotImplemented))
			assert.Empty(t, text)
		})
	}
}

func TestLive_CancelledContextStillNotImplemented(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLive().Transcript(ctx, "abc123")
	assert.ErrorIs(t, err, ErrNotImplemented)
}
