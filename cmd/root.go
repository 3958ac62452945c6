package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/meetfollow/internal/config"
	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/logging"
	"github.com/teemow/meetfollow/internal/workflow"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	envFile  string
	logLevel string
	debug    bool
}

// rootCmd represents the base command for the meetfollow application
var rootCmd = newRootCmd()

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "meetfollow",
		Short: "Summarizes a meeting and schedules its follow-up",
		Long: `meetfollow fetches a calendar event and its transcript, summarizes the
meeting with a language model, and creates a follow-up event when the
summary lists next steps.

Without OPENAI_API_KEY, GOOGLE_API_TOKEN and GOOGLE_CALENDAR_ID all set,
every component runs against canned sample data.

It can run as:
  - A one-shot CLI run (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate(`{{printf "meetfollow version %s\n" .Version}}`)

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Env file to load before .env.local and .env")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Shorthand for --log-level=debug")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newGenerateDocsCmd())

	return cmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetArgs(defaultArgs(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// defaultArgs runs the workflow when no subcommand is given.
func defaultArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"run"}
	}
	return args
}

func (o *globalOptions) loadConfig() (config.Config, error) {
	if o.envFile != "" {
		return config.LoadFile(o.envFile)
	}
	return config.Load()
}

func (o *globalOptions) newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level := cfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.debug {
		level = "debug"
	}
	return logging.New(w, level, cfg.LogFormat)
}

// runtime is everything a subcommand needs to run the workflow.
type runtime struct {
	cfg      config.Config
	logger   *slog.Logger
	provider *instrumentation.Provider
	workflow *workflow.Workflow
}

// setup loads configuration and builds the workflow. Logs go to logOut;
// stdout is reserved for command output and the MCP stdio transport.
func (o *globalOptions) setup(ctx context.Context, logOut io.Writer) (*runtime, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.WithService(o.newLogger(logOut, cfg), cfg.Instrumentation.ServiceName)
	logger.Debug("configuration loaded", "config", cfg)

	instrConfig := cfg.Instrumentation
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	wf, err := workflow.NewFromConfig(ctx, cfg,
		workflow.WithLogger(logging.NewSlogAdapter(logger)),
		workflow.WithMetrics(provider.Metrics()),
	)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, provider: provider, workflow: wf}, nil
}

func (r *runtime) shutdown(ctx context.Context) {
	if err := r.provider.Shutdown(ctx); err != nil {
		r.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}
