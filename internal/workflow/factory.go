package workflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/teemow/meetfollow/internal/analysis"
	"github.com/teemow/meetfollow/internal/calendar"
	"github.com/teemow/meetfollow/internal/config"
	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/logging"
	"github.com/teemow/meetfollow/internal/transcript"
)

// Option customizes NewFromConfig.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     logging.Logger
	metrics    *instrumentation.Metrics
	now        func() time.Time
}

// WithHTTPClient sets the base HTTP client for live components.
// It is never used in mock mode.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock overrides time.Now, used to schedule follow-ups.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewFromConfig builds a Workflow with every component in the mode chosen by
// cfg.Mock. Mock components are used all together or not at all.
func NewFromConfig(ctx context.Context, cfg config.Config, opts ...Option) (*Workflow, error) {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	deps := Deps{
		Mode:    cfg.Mode(),
		Logger:  o.logger,
		Metrics: o.metrics,
		Now:     o.now,
	}

	if cfg.Mock {
		o.logger.Info("credentials incomplete, running in mock mode")
		deps.Calendar = calendar.NewMockClient(o.logger)
		deps.Transcripts = transcript.NewMock(o.logger)
		deps.Analyzer = analysis.NewMock(o.logger)
		return New(deps), nil
	}

	cal, err := calendar.NewLiveClient(ctx, calendar.LiveConfig{
		Token:      cfg.GoogleAPIToken,
		CalendarID: cfg.GoogleCalendarID,
		Endpoint:   cfg.GoogleCalendarEndpoint,
		HTTPClient: o.httpClient,
		Timeout:    cfg.RequestTimeout,
		Logger:     o.logger,
		Metrics:    o.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	liveCfg := analysis.LiveConfig{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		HTTPClient: o.httpClient,
		Timeout:    cfg.RequestTimeout,
		Logger:     o.logger,
		Metrics:    o.metrics,
	}
	if cfg.LogPromptTokens {
		counter, err := analysis.NewTiktokenCounter(analysis.DefaultModel)
		if err != nil {
			o.logger.Warn("prompt token counting disabled", logging.Err(err))
		} else {
			liveCfg.Tokens = counter
		}
	}

	deps.Calendar = cal
	deps.Transcripts = transcript.NewLive()
	deps.Analyzer = analysis.NewLive(liveCfg)
	return New(deps), nil
}
