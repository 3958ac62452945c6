// Package instrumentation provides OpenTelemetry metrics and tracing for
// meetfollow runs.
//
// # Metrics
//
// Workflow:
//   - workflow_runs_total: runs by mode (mock, live) and status
//   - workflow_step_duration_seconds: duration of each step by step and status
//   - followups_created_total: follow-up events created, by mode
//
// External calls:
//   - google_api_operations_total / google_api_operation_duration_seconds
//   - llm_requests_total / llm_request_duration_seconds
//
// # Tracing
//
// A run produces a workflow.run span with one workflow.<step> child per step,
// and client spans for google.calendar.<operation> and llm.chat_completion.
//
// # Configuration
//
// Instrumentation is off unless INSTRUMENTATION_ENABLED=true. See Config for
// the exporter settings (prometheus, otlp, stdout).
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, cfg.Instrumentation)
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordRun(ctx, instrumentation.ModeMock, instrumentation.StatusSuccess)
package instrumentation
