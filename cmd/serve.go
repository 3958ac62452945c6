package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/meetfollow/internal/logging"
	"github.com/teemow/meetfollow/internal/server"
	"github.com/teemow/meetfollow/internal/tools/followup_tools"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server on stdio. It exposes one tool,
meeting_followup_run, which runs the follow-up workflow for an event.

Metrics:
  With INSTRUMENTATION_ENABLED=true and the prometheus exporter, metrics and
  health probes are served on --metrics-addr (/metrics, /healthz, /readyz).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Empty disables it.")

	return cmd
}

func runServe(parent context.Context, opts *globalOptions, metricsAddr string) error {
	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stdout carries the MCP protocol; logs must go to stderr.
	rt, err := opts.setup(ctx, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.shutdown(context.Background())

	// Not ready until the follow-up tool is registered.
	health := server.NewHealthChecker()
	health.SetReady(false)
	if metricsAddr != "" && rt.provider.Enabled() && rt.provider.MetricsHandler() != nil {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: rt.provider,
			Health:                  health,
			Logger:                  rt.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			health.MarkShuttingDown()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				rt.logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	mcpSrv, err := newMCPServer(rt, health)
	if err != nil {
		return err
	}

	rt.logger.Info("serving MCP over stdio", logging.Mode(rt.workflow.Mode()))
	return runStdioServer(ctx, mcpSrv)
}

// newMCPServer creates the MCP server with the follow-up tool registered
// and, when health is non-nil, marks the server ready.
func newMCPServer(rt *runtime, health *server.HealthChecker) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("meetfollow", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := followup_tools.RegisterFollowupTools(mcpSrv, rt.workflow, followup_tools.Options{
		DefaultEventID: rt.cfg.EventID,
		Metrics:        rt.provider.Metrics(),
		Logger:         logging.NewSlogAdapter(rt.logger),
	}); err != nil {
		return nil, fmt.Errorf("failed to register follow-up tools: %w", err)
	}

	if health != nil {
		health.SetReady(true)
	}
	return mcpSrv, nil
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}
