package analysis

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/teemow/meetfollow/internal/calendar"
	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/logging"
)

// DefaultModel is the chat model used for every analysis.
const DefaultModel = "gpt-4o-mini"

// LiveConfig configures a Live analyzer.
type LiveConfig struct {
	APIKey string

	// BaseURL overrides the OpenAI API base URL. Optional.
	BaseURL string

	HTTPClient *http.Client
	Timeout    time.Duration

	Logger  logging.Logger
	Metrics *instrumentation.Metrics

	// Tokens, when set, is used to log the prompt size before sending.
	Tokens TokenCounter
}

// Live sends one chat completion request per analysis.
type Live struct {
	client  openaigo.Client
	model   string
	logger  logging.Logger
	metrics *instrumentation.Metrics
	tokens  TokenCounter
}

var _ Analyzer = (*Live)(nil)

// NewLive creates a Live analyzer. Requests are never retried.
func NewLive(cfg LiveConfig) *Live {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Live{
		client:  openaigo.NewClient(opts...),
		model:   DefaultModel,
		logger:  logger,
		metrics: cfg.Metrics,
		tokens:  cfg.Tokens,
	}
}

// Analyze returns the model's raw reply as Result.Summary. Highlights,
// NextSteps and MeetingsCreated are left empty.
func (l *Live) Analyze(ctx context.Context, event *calendar.Event, transcript string) (*Result, error) {
	prompt := BuildPrompt(event, transcript)
	if l.tokens != nil {
		l.logger.Debug("prompt built", "model", l.model, "prompt_tokens", l.tokens.Count(prompt))
	}

	ctx, span := instrumentation.StartLLMSpan(ctx, l.model)
	start := time.Now()

	resp, err := l.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(l.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.UserMessage(prompt),
		},
	})
	if err == nil && len(resp.Choices) == 0 {
		err = fmt.Errorf("chat completion returned no choices")
	}

	l.metrics.RecordLLMRequest(ctx, l.model, instrumentation.StatusOf(err), time.Since(start))
	instrumentation.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze meeting: %w", err)
	}

	return &Result{Summary: resp.Choices[0].Message.Content}, nil
}
