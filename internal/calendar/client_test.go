package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

const sampleEventJSON = `{
  "id": "abc123",
  "summary": "Weekly AI Research Sync",
  "start": {"dateTime": "2025-10-25T10:00:00Z"},
  "end": {"dateTime": "2025-10-25T11:00:00Z"},
  "creator": {"displayName": "Alice", "email": "alice@example.com"},
  "attendees": [{"email": "bob@example.com", "displayName": "Bob"}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *LiveClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewLiveClient(context.Background(), LiveConfig{
		Token:      "test-token",
		CalendarID: "primary",
		Endpoint:   srv.URL + "/calendar/v3/",
		HTTPClient: srv.Client(),
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNewLiveClient_RequiresCalendarID(t *testing.T) {
	_, err := NewLiveClient(context.Background(), LiveConfig{Token: "t"})
	assert.Error(t, err)
}

func TestLiveClient_GetEvent(t *testing.T) {
	var gotPath, gotAuth, gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEventJSON))
	})

	event, err := client.GetEvent(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/calendar/v3/calendars/primary/events/abc123", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)

	assert.Equal(t, "abc123", event.ID)
	assert.Equal(t, "Weekly AI Research Sync", event.Title)
	assert.Equal(t, Person{Name: "Alice", Email: "alice@example.com"}, event.Creator)
	assert.Equal(t, []string{"bob@example.com"}, event.AttendeeEmails())
	assert.True(t, event.Start.Equal(time.Date(2025, 10, 25, 10, 0, 0, 0, time.UTC)))
}

func TestLiveClient_GetEvent_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(status)
				_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"nope"}}`, status)
			})

			_, err := client.GetEvent(context.Background(), "abc123")
			require.Error(t, err)

			var gerr *googleapi.Error
			require.True(t, errors.As(err, &gerr), "expected a wrapped googleapi.Error, got %v", err)
			assert.Equal(t, status, gerr.Code)
			assert.Equal(t, 1, calls, "event reads must not be retried")
		})
	}
}

func TestLiveClient_CreateFollowup(t *testing.T) {
	type dateTime struct {
		DateTime string `json:"dateTime"`
	}
	var body struct {
		Summary   string   `json:"summary"`
		Start     dateTime `json:"start"`
		End       dateTime `json:"end"`
		Attendees []struct {
			Email string `json:"email"`
		} `json:"attendees"`
	}
	var gotPath, gotMethod, gotAuth, gotContentType string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"new-event","htmlLink":"https://calendar.google.com/event?eid=new-event"}`))
	})

	start := time.Date(2025, 10, 28, 14, 0, 0, 0, time.UTC)
	created, err := client.CreateFollowup(context.Background(), FollowupRequest{
		Title:     "Follow-up: Meeting Outcomes",
		Start:     start,
		Attendees: []string{"bob@example.com", "carol@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/calendar/v3/calendars/primary/events", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Contains(t, gotContentType, "application/json")

	assert.Equal(t, "Follow-up: Meeting Outcomes", body.Summary)
	assert.Equal(t, "2025-10-28T14:00:00Z", body.Start.DateTime)
	assert.Equal(t, "2025-10-28T15:00:00Z", body.End.DateTime)
	require.Len(t, body.Attendees, 2)
	assert.Equal(t, "bob@example.com", body.Attendees[0].Email)
	assert.Equal(t, "carol@example.com", body.Attendees[1].Email)

	assert.Equal(t, &FollowupEvent{ID: "new-event", HTMLLink: "https://calendar.google.com/event?eid=new-event"}, created)
}

func TestLiveClient_CreateFollowup_NonSuccessStatusIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"insufficient permissions"}}`))
	})

	created, err := client.CreateFollowup(context.Background(), FollowupRequest{Title: "x", Start: time.Now()})
	require.Error(t, err)
	assert.Nil(t, created)

	var gerr *googleapi.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, http.StatusForbidden, gerr.Code)
}

func TestMockClient(t *testing.T) {
	client := NewMockClient(nil)
	ctx := context.Background()

	event, err := client.GetEvent(ctx, "anything-at-all")
	require.NoError(t, err)
	assert.Equal(t, MockEventID, event.ID)
	assert.Equal(t, "Alice", event.Creator.Name)
	assert.Equal(t, []string{"bob@example.com"}, event.AttendeeEmails())

	// Callers may mutate the returned event without affecting later calls.
	event.Attendees = nil
	again, err := client.GetEvent(ctx, "abc123")
	require.NoError(t, err)
	assert.Len(t, again.Attendees, 1)

	created, err := client.CreateFollowup(ctx, FollowupRequest{Title: "Follow-up", Start: time.Now(), Attendees: []string{"x@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, &FollowupEvent{ID: MockFollowupID, HTMLLink: MockFollowupLink}, created)
}
