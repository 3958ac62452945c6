// Package calendar reads meeting events from, and writes follow-up events to,
// the Google Calendar API.
//
// Service has two implementations. LiveClient wraps
// google.golang.org/api/calendar/v3 and authenticates every request with a
// static bearer token. MockClient returns canned data for runs without
// credentials.
//
// Both GetEvent and CreateFollowup treat any non-2xx response as an error;
// the underlying *googleapi.Error is wrapped and can be inspected with
// errors.As.
//
// Example usage:
//
//	client, err := calendar.NewLiveClient(ctx, calendar.LiveConfig{
//	    Token:      token,
//	    CalendarID: "primary",
//	    Timeout:    time.Minute,
//	})
//	if err != nil {
//	    return err
//	}
//	event, err := client.GetEvent(ctx, "abc123")
package calendar
