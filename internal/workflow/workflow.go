package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/meetfollow/internal/analysis"
	"github.com/teemow/meetfollow/internal/calendar"
	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/logging"
	"github.com/teemow/meetfollow/internal/transcript"
)

// State is a point the run has reached.
type State string

const (
	StateStart             State = "start"
	StateEventFetched      State = "event_fetched"
	StateTranscriptFetched State = "transcript_fetched"
	StateAnalyzed          State = "analyzed"
	StateFollowupCreated   State = "followup_created"
	StateFollowupSkipped   State = "followup_skipped"
	StateDone              State = "done"
)

// Step names used for spans, metrics and error prefixes.
const (
	StepFetchEvent      = "fetch_event"
	StepFetchTranscript = "fetch_transcript"
	StepAnalyze         = "analyze"
	StepCreateFollowup  = "create_followup"
)

const (
	// FollowupTitle is the title of every follow-up this workflow creates.
	FollowupTitle = "Follow-up: Meeting Outcomes"

	// FollowupDelay is how far after the run the follow-up is scheduled.
	FollowupDelay = 72 * time.Hour
)

// Deps are the components a Workflow drives.
type Deps struct {
	Calendar    calendar.Service
	Transcripts transcript.Retriever
	Analyzer    analysis.Analyzer

	// Mode is reported in results, logs and metrics ("mock" or "live").
	Mode string

	Logger  logging.Logger
	Metrics *instrumentation.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

// Workflow runs the fetch, analyze and follow-up sequence for one meeting.
type Workflow struct {
	calendar    calendar.Service
	transcripts transcript.Retriever
	analyzer    analysis.Analyzer
	mode        string
	logger      logging.Logger
	metrics     *instrumentation.Metrics
	now         func() time.Time
}

// Result describes a completed run.
type Result struct {
	RunID    string                  `json:"run_id"`
	Mode     string                  `json:"mode"`
	Event    *calendar.Event         `json:"event"`
	Analysis *analysis.Result        `json:"analysis"`
	Followup *calendar.FollowupEvent `json:"followup,omitempty"`
	States   []State                 `json:"states"`
}

// New creates a Workflow from explicit components.
func New(deps Deps) *Workflow {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Workflow{
		calendar:    deps.Calendar,
		transcripts: deps.Transcripts,
		analyzer:    deps.Analyzer,
		mode:        deps.Mode,
		logger:      logger,
		metrics:     deps.Metrics,
		now:         now,
	}
}

// Mode returns "mock" or "live".
func (w *Workflow) Mode() string {
	return w.mode
}

// Run processes one meeting. A follow-up is created only when the analysis
// lists at least one next step. The first failing step aborts the run and
// its error is returned prefixed with the step name.
func (w *Workflow) Run(ctx context.Context, eventID string) (_ *Result, err error) {
	runID := uuid.NewString()
	logger := w.logger.With(logging.RunID(runID), logging.Mode(w.mode))

	ctx, span := instrumentation.StartSpan(ctx, "workflow.run",
		attribute.String(instrumentation.SpanAttrRunID, runID),
		attribute.String(instrumentation.SpanAttrMode, w.mode),
		attribute.String(instrumentation.SpanAttrEventID, eventID),
	)
	defer func() {
		w.metrics.RecordRun(ctx, w.mode, instrumentation.StatusOf(err))
		instrumentation.EndSpan(span, err)
		if err != nil {
			logger.Error("workflow failed", logging.Err(err), logging.TraceID(instrumentation.GetTraceID(ctx)))
		}
	}()

	res := &Result{RunID: runID, Mode: w.mode, States: []State{StateStart}}
	logger.Info("workflow started", logging.EventID(eventID))

	event, err := step(ctx, w, logger, StepFetchEvent, func(ctx context.Context) (*calendar.Event, error) {
		return w.calendar.GetEvent(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}
	res.Event = event
	res.States = append(res.States, StateEventFetched)
	logger.Debug("event fetched",
		logging.EventID(event.ID),
		"title", event.Title,
		"attendees", logging.AttendeeHashes(event.AttendeeEmails()),
	)

	text, err := step(ctx, w, logger, StepFetchTranscript, func(ctx context.Context) (string, error) {
		return w.transcripts.Transcript(ctx, event.ID)
	})
	if err != nil {
		return nil, err
	}
	res.States = append(res.States, StateTranscriptFetched)

	result, err := step(ctx, w, logger, StepAnalyze, func(ctx context.Context) (*analysis.Result, error) {
		return w.analyzer.Analyze(ctx, event, text)
	})
	if err != nil {
		return nil, err
	}
	res.Analysis = result
	res.States = append(res.States, StateAnalyzed)
	logger.Info("meeting analyzed", "summary", result.Summary, "next_steps", result.NextSteps)

	if len(result.NextSteps) > 0 {
		req := calendar.FollowupRequest{
			Title:     FollowupTitle,
			Start:     w.now().Add(FollowupDelay),
			Attendees: event.AttendeeEmails(),
		}
		followup, err := step(ctx, w, logger, StepCreateFollowup, func(ctx context.Context) (*calendar.FollowupEvent, error) {
			return w.calendar.CreateFollowup(ctx, req)
		})
		if err != nil {
			return nil, err
		}
		w.metrics.RecordFollowupCreated(ctx, w.mode)
		res.Followup = followup
		res.States = append(res.States, StateFollowupCreated)
		logger.Info("follow-up created", "link", followup.HTMLLink)
	} else {
		res.States = append(res.States, StateFollowupSkipped)
		logger.Info("no next steps, follow-up skipped")
	}

	res.States = append(res.States, StateDone)
	logger.Info("workflow complete")
	return res, nil
}

// step runs fn inside a step span and records its duration.
func step[T any](ctx context.Context, w *Workflow, logger logging.Logger, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := instrumentation.StartStepSpan(ctx, name)
	start := time.Now()

	out, err := fn(ctx)

	duration := time.Since(start)
	status := instrumentation.StatusOf(err)
	w.metrics.RecordStep(ctx, name, status, duration)
	instrumentation.EndSpan(span, err)
	logger.Debug("step finished", logging.Step(name), logging.Status(status), logging.KeyDuration, duration)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
