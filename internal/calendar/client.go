package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/logging"
)

// Service reads events and creates follow-ups. MockClient and LiveClient
// are the two implementations.
type Service interface {
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	CreateFollowup(ctx context.Context, req FollowupRequest) (*FollowupEvent, error)
}

// LiveConfig configures a LiveClient.
type LiveConfig struct {
	// Token is sent as "Authorization: Bearer <Token>" on every request.
	Token string

	// CalendarID is the calendar holding the events, e.g. "primary".
	CalendarID string

	// Endpoint overrides the API base URL. Empty means the Google default.
	Endpoint string

	// HTTPClient is the base client below the auth transport. Optional.
	HTTPClient *http.Client

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	Logger  logging.Logger
	Metrics *instrumentation.Metrics
}

// LiveClient talks to the Google Calendar API.
type LiveClient struct {
	svc        *calendar.Service
	calendarID string
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

var _ Service = (*LiveClient)(nil)

// NewLiveClient creates a Calendar client authenticated with a static bearer token.
func NewLiveClient(ctx context.Context, cfg LiveConfig) (*LiveClient, error) {
	if cfg.CalendarID == "" {
		return nil, fmt.Errorf("calendar ID cannot be empty")
	}

	base := cfg.HTTPClient
	if base == nil {
		// Force HTTP/1.1 by disabling HTTP/2
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ForceAttemptHTTP2 = false
		base = &http.Client{Transport: transport}
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), tokenSource)
	client.Timeout = cfg.Timeout

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &LiveClient{
		svc:        svc,
		calendarID: cfg.CalendarID,
		logger:     logger,
		metrics:    cfg.Metrics,
	}, nil
}

// GetEvent retrieves a specific event by ID. Any non-2xx response is an error.
func (c *LiveClient) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationGet,
		attribute.String(instrumentation.SpanAttrEventID, eventID))
	start := time.Now()

	event, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()

	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, instrumentation.OperationGet,
		instrumentation.StatusOf(err), time.Since(start))
	instrumentation.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}

	c.logger.Debug("fetched calendar event", logging.EventID(event.Id), "attendees", len(event.Attendees))
	return toEvent(event), nil
}

// CreateFollowup inserts a one hour event starting at req.Start.
// Any non-2xx response is an error.
func (c *LiveClient) CreateFollowup(ctx context.Context, req FollowupRequest) (*FollowupEvent, error) {
	event := &calendar.Event{
		Summary: req.Title,
		Start:   &calendar.EventDateTime{DateTime: req.Start.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: req.End().Format(time.RFC3339)},
	}
	for _, email := range req.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate)
	start := time.Now()

	created, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()

	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate,
		instrumentation.StatusOf(err), time.Since(start))
	instrumentation.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &FollowupEvent{ID: created.Id, HTMLLink: created.HtmlLink}, nil
}
