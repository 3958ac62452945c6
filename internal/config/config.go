package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/logging"
)

// DefaultEventID is the sample event fetched when EVENT_ID is unset.
const DefaultEventID = "abc123"

// dotEnvFiles are loaded from the working directory when present.
var dotEnvFiles = []string{".env.local", ".env"}

// Config is the process configuration. It is built once at startup and
// passed by value; nothing reads the environment after Load returns.
type Config struct {
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	GoogleAPIToken   string `env:"GOOGLE_API_TOKEN"`
	GoogleCalendarID string `env:"GOOGLE_CALENDAR_ID"`

	// Mock is true iff at least one credential above is empty.
	Mock bool `env:"-"`

	EventID string `env:"EVENT_ID" envDefault:"abc123"`

	// OpenAIBaseURL overrides the chat completion endpoint (proxies, tests).
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	// GoogleCalendarEndpoint overrides the Calendar API base URL.
	GoogleCalendarEndpoint string `env:"GOOGLE_CALENDAR_ENDPOINT"`

	// RequestTimeout bounds every outbound HTTP request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// LogPromptTokens counts prompt tokens with tiktoken before each LLM call.
	LogPromptTokens bool `env:"LOG_PROMPT_TOKENS" envDefault:"false"`

	Instrumentation instrumentation.Config
}

// Load reads .env.local and .env from the working directory, if present,
// then parses the process environment. Variables already set in the
// environment win over the files.
func Load() (Config, error) {
	for _, p := range dotEnvFiles {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return parse()
}

// LoadFile is Load with an explicit env file that must exist.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return Load()
}

func parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Mock = cfg.OpenAIAPIKey == "" || cfg.GoogleAPIToken == "" || cfg.GoogleCalendarID == ""
	if cfg.EventID == "" {
		cfg.EventID = DefaultEventID
	}
	return cfg, nil
}

// Mode returns "mock" or "live".
func (c Config) Mode() string {
	if c.Mock {
		return instrumentation.ModeMock
	}
	return instrumentation.ModeLive
}

// LogValue implements slog.LogValuer with credentials masked.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", c.Mode()),
		slog.String("openai_api_key", logging.SanitizeToken(c.OpenAIAPIKey)),
		slog.String("google_api_token", logging.SanitizeToken(c.GoogleAPIToken)),
		slog.Bool("google_calendar_id_set", c.GoogleCalendarID != ""),
		slog.String("event_id", c.EventID),
		slog.Duration("request_timeout", c.RequestTimeout),
		slog.Bool("instrumentation", c.Instrumentation.Enabled),
	)
}
