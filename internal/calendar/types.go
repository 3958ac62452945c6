package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// FollowupDuration is the fixed length of every follow-up event.
const FollowupDuration = time.Hour

// Layouts accepted for event start/end values, tried in order.
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Person is an event creator or attendee. Name may be empty.
type Person struct {
	Name  string `json:"displayName,omitempty"`
	Email string `json:"email"`
}

// Event is the subset of a calendar event the workflow reads.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"summary"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Creator   Person    `json:"creator"`
	Attendees []Person  `json:"attendees"`
}

// AttendeeEmails returns the attendee addresses in event order.
func (e *Event) AttendeeEmails() []string {
	emails := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		emails = append(emails, a.Email)
	}
	return emails
}

// FollowupRequest describes a follow-up event to create.
type FollowupRequest struct {
	Title     string
	Start     time.Time
	Attendees []string
}

// End is always Start plus FollowupDuration.
func (r FollowupRequest) End() time.Time {
	return r.Start.Add(FollowupDuration)
}

// FollowupEvent identifies a created follow-up.
type FollowupEvent struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

// toEvent converts a Google Calendar event to an Event
func toEvent(event *calendar.Event) *Event {
	if event == nil {
		return &Event{}
	}

	ev := &Event{
		ID:    event.Id,
		Title: event.Summary,
		Start: parseEventTime(event.Start),
		End:   parseEventTime(event.End),
	}

	if event.Creator != nil {
		ev.Creator = Person{Name: event.Creator.DisplayName, Email: event.Creator.Email}
	}

	for _, a := range event.Attendees {
		if a == nil {
			continue
		}
		ev.Attendees = append(ev.Attendees, Person{Name: a.DisplayName, Email: a.Email})
	}

	return ev
}

// parseEventTime reads dateTime (offset or naive) and falls back to the
// all-day date. Naive values use the event's time zone when it resolves.
func parseEventTime(dt *calendar.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}

	if dt.DateTime != "" {
		loc := time.UTC
		if dt.TimeZone != "" {
			if l, err := time.LoadLocation(dt.TimeZone); err == nil {
				loc = l
			}
		}
		for _, layout := range eventTimeLayouts {
			if t, err := time.ParseInLocation(layout, dt.DateTime, loc); err == nil {
				return t
			}
		}
	}

	if dt.Date != "" {
		if t, err := time.Parse("2006-01-02", dt.Date); err == nil {
			return t
		}
	}

	return time.Time{}
}
