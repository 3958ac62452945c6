package workflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/teemow/meetfollow/internal/analysis"
	"github.com/teemow/meetfollow/internal/calendar"
	"github.com/teemow/meetfollow/internal/config"
	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/logging"
	"github.com/teemow/meetfollow/internal/transcript"
)

var fixedNow = time.Date(2025, time.October, 25, 12, 0, 0, 0, time.UTC)

// countingTransport fails every request and counts attempts.
type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return nil, errors.New("network disabled in test")
}

type spyCalendar struct {
	calendar.Service
	gets    int
	creates []calendar.FollowupRequest
}

func (s *spyCalendar) GetEvent(ctx context.Context, id string) (*calendar.Event, error) {
	s.gets++
	return s.Service.GetEvent(ctx, id)
}

func (s *spyCalendar) CreateFollowup(ctx context.Context, req calendar.FollowupRequest) (*calendar.FollowupEvent, error) {
	s.creates = append(s.creates, req)
	return s.Service.CreateFollowup(ctx, req)
}

type spyTranscripts struct {
	transcript.Retriever
	calls []string
}

func (s *spyTranscripts) Transcript(ctx context.Context, id string) (string, error) {
	s.calls = append(s.calls, id)
	return s.Retriever.Transcript(ctx, id)
}

type stubAnalyzer struct {
	result *analysis.Result
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, event *calendar.Event, text string) (*analysis.Result, error) {
	s.calls++
	return s.result, s.err
}

func newMockWorkflow(an analysis.Analyzer) (*Workflow, *spyCalendar, *spyTranscripts) {
	cal := &spyCalendar{Service: calendar.NewMockClient(nil)}
	tr := &spyTranscripts{Retriever: transcript.NewMock(nil)}
	if an == nil {
		an = analysis.NewMock(nil)
	}
	wf := New(Deps{
		Calendar:    cal,
		Transcripts: tr,
		Analyzer:    an,
		Mode:        instrumentation.ModeMock,
		Now:         func() time.Time { return fixedNow },
	})
	return wf, cal, tr
}

func TestRun_Mock(t *testing.T) {
	wf, cal, tr := newMockWorkflow(nil)

	res, err := wf.Run(context.Background(), "abc123")
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, instrumentation.ModeMock, res.Mode)
	assert.Equal(t, "Weekly AI Research Sync", res.Event.Title)
	assert.Equal(t, "Follow-up meeting required to finalize results.", res.Analysis.Summary)
	assert.Equal(t, []string{"Organize follow-up meeting", "Prepare presentation slides"}, res.Analysis.NextSteps)
	assert.Equal(t, []string{"abc123"}, tr.calls)

	require.Len(t, cal.creates, 1)
	req := cal.creates[0]
	assert.Equal(t, FollowupTitle, req.Title)
	assert.Equal(t, fixedNow.Add(72*time.Hour), req.Start)
	assert.Equal(t, req.Start.Add(time.Hour), req.End())
	assert.Equal(t, []string{"bob@example.com"}, req.Attendees)

	require.NotNil(t, res.Followup)
	assert.Equal(t, calendar.MockFollowupLink, res.Followup.HTMLLink)

	assert.Equal(t, []State{
		StateStart, StateEventFetched, StateTranscriptFetched, StateAnalyzed, StateFollowupCreated, StateDone,
	}, res.States)
}

func TestRun_UniqueRunIDs(t *testing.T) {
	wf, _, _ := newMockWorkflow(nil)

	a, err := wf.Run(context.Background(), "abc123")
	require.NoError(t, err)
	b, err := wf.Run(context.Background(), "abc123")
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRun_NoNextStepsSkipsFollowup(t *testing.T) {
	wf, cal, _ := newMockWorkflow(&stubAnalyzer{result: &analysis.Result{Summary: "Nothing to do."}})

	res, err := wf.Run(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Empty(t, cal.creates)
	assert.Nil(t, res.Followup)
	assert.Equal(t, []State{
		StateStart, StateEventFetched, StateTranscriptFetched, StateAnalyzed, StateFollowupSkipped, StateDone,
	}, res.States)
}

func TestRun_AnalyzerErrorAborts(t *testing.T) {
	wf, cal, _ := newMockWorkflow(&stubAnalyzer{err: errors.New("rate limited")})

	_, err := wf.Run(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), StepAnalyze)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Empty(t, cal.creates)
}

func TestRun_LogsStepsAndFailure(t *testing.T) {
	var buf bytes.Buffer
	wf := New(Deps{
		Calendar:    calendar.NewMockClient(nil),
		Transcripts: transcript.NewMock(nil),
		Analyzer:    &stubAnalyzer{err: errors.New("rate limited")},
		Mode:        instrumentation.ModeMock,
		Logger:      logging.NewSlogAdapter(logging.New(&buf, "debug", logging.FormatText)),
	})

	_, err := wf.Run(context.Background(), "abc123")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "step="+StepFetchEvent)
	assert.Contains(t, out, "step="+StepFetchTranscript)
	assert.Contains(t, out, "step="+StepAnalyze+" status=error")
	assert.NotContains(t, out, "step="+StepCreateFollowup)
	assert.Contains(t, out, "workflow failed")
	assert.Contains(t, out, logging.KeyTraceID+"=")
}

func TestRun_EventReadFailureStopsBeforeTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"backend error"}}`)
	}))
	defer srv.Close()

	cal, err := calendar.NewLiveClient(context.Background(), calendar.LiveConfig{
		Token:      "token",
		CalendarID: "primary",
		Endpoint:   srv.URL + "/calendar/v3/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	tr := &spyTranscripts{Retriever: transcript.NewMock(nil)}
	an := &stubAnalyzer{}
	wf := New(Deps{Calendar: cal, Transcripts: tr, Analyzer: an, Mode: instrumentation.ModeLive})

	_, err = wf.Run(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), StepFetchEvent)

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Code)

	assert.Empty(t, tr.calls)
	assert.Zero(t, an.calls)
}

func TestRun_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "test",
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	wf := New(Deps{
		Calendar:    calendar.NewMockClient(nil),
		Transcripts: transcript.NewMock(nil),
		Analyzer:    analysis.NewMock(nil),
		Mode:        instrumentation.ModeMock,
		Metrics:     provider.Metrics(),
	})
	_, err = wf.Run(ctx, "abc123")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	provider.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, "workflow_runs_total")
	assert.Contains(t, body, "followups_created_total")
	assert.Contains(t, body, `step="create_followup"`)
}

func TestNewFromConfig_MockMakesNoHTTPRequests(t *testing.T) {
	for name, cfg := range map[string]config.Config{
		"all empty":        {},
		"missing openai":   {GoogleAPIToken: "t", GoogleCalendarID: "primary"},
		"missing token":    {OpenAIAPIKey: "k", GoogleCalendarID: "primary"},
		"missing calendar": {OpenAIAPIKey: "k", GoogleAPIToken: "t"},
	} {
		t.Run(name, func(t *testing.T) {
			cfg.Mock = true
			transport := &countingTransport{}

			wf, err := NewFromConfig(context.Background(), cfg,
				WithHTTPClient(&http.Client{Transport: transport}),
				WithClock(func() time.Time { return fixedNow }),
			)
			require.NoError(t, err)
			assert.Equal(t, instrumentation.ModeMock, wf.Mode())

			res, err := wf.Run(context.Background(), config.DefaultEventID)
			require.NoError(t, err)
			assert.Equal(t, "Follow-up meeting required to finalize results.", res.Analysis.Summary)
			require.NotNil(t, res.Followup)
			assert.Equal(t, calendar.MockFollowupID, res.Followup.ID)

			assert.Zero(t, transport.calls.Load())
		})
	}
}

func TestNewFromConfig_LiveTranscriptNotImplemented(t *testing.T) {
	var calendarCalls, llmCalls atomic.Int32
	calSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calendarCalls.Add(1)
		assert.Equal(t, "Bearer google-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"evt1","summary":"Sync","start":{"dateTime":"2025-10-25T10:00:00Z"},"end":{"dateTime":"2025-10-25T11:00:00Z"},"creator":{"email":"alice@example.com"}}`)
	}))
	defer calSrv.Close()
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llmCalls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer llmSrv.Close()

	cfg := config.Config{
		OpenAIAPIKey:           "sk-test",
		GoogleAPIToken:         "google-token",
		GoogleCalendarID:       "primary",
		OpenAIBaseURL:          llmSrv.URL,
		GoogleCalendarEndpoint: calSrv.URL + "/calendar/v3/",
		RequestTimeout:         5 * time.Second,
	}

	wf, err := NewFromConfig(context.Background(), cfg, WithHTTPClient(calSrv.Client()))
	require.NoError(t, err)
	assert.Equal(t, instrumentation.ModeLive, wf.Mode())

	_, err = wf.Run(context.Background(), "evt1")
	require.Error(t, err)
	assert.ErrorIs(t, err, transcript.ErrNotImplemented)
	assert.Contains(t, err.Error(), StepFetchTranscript)

	assert.Equal(t, int32(1), calendarCalls.Load())
	assert.Zero(t, llmCalls.Load())
}

func TestNewFromConfig_LiveRequiresCalendarID(t *testing.T) {
	// Mock is derived by config.Load; a hand-built live config can still be invalid.
	_, err := NewFromConfig(context.Background(), config.Config{OpenAIAPIKey: "k", GoogleAPIToken: "t"})
	assert.Error(t, err)
}
