package analysis

import (
	"strings"

	"github.com/teemow/meetfollow/internal/calendar"
)

// BuildPrompt renders the single user message sent to the model.
func BuildPrompt(event *calendar.Event, transcript string) string {
	var b strings.Builder
	b.WriteString("\nYou are an AI meeting assistant.\n")
	b.WriteString("Meeting summary:\n")
	b.WriteString("Creator: " + event.Creator.Name + " <" + event.Creator.Email + ">\n")
	b.WriteString("Attendees: " + strings.Join(event.AttendeeEmails(), ", ") + "\n")
	b.WriteString("Transcript:\n")
	b.WriteString(`"""` + transcript + `"""` + "\n\n")
	b.WriteString("1. Summarize key points.\n")
	b.WriteString("2. Extract highlights per attendee.\n")
	b.WriteString("3. List next steps.\n")
	b.WriteString("4. If transcript mentions a follow-up, propose event details.\n")
	return b.String()
}
