package followup_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/logging"
	"github.com/teemow/meetfollow/internal/tools/common"
	"github.com/teemow/meetfollow/internal/workflow"
)

// ToolRun is the name of the tool that runs the follow-up workflow.
const ToolRun = "meeting_followup_run"

// Runner runs the follow-up workflow for one event. *workflow.Workflow
// implements it.
type Runner interface {
	Run(ctx context.Context, eventID string) (*workflow.Result, error)
}

// Options configures RegisterFollowupTools.
type Options struct {
	// DefaultEventID is used when the caller omits event_id.
	DefaultEventID string

	Metrics *instrumentation.Metrics
	Logger  logging.Logger
}

// RegisterFollowupTools registers the follow-up workflow tool with the MCP server.
func RegisterFollowupTools(s *mcpserver.MCPServer, runner Runner, opts Options) error {
	if runner == nil {
		return fmt.Errorf("runner is required")
	}

	runTool := mcp.NewTool(ToolRun,
		mcp.WithDescription("Fetch a calendar event and its transcript, summarize the meeting, and create a follow-up event when next steps were identified. Runs against canned sample data unless all credentials are configured."),
		mcp.WithString("event_id",
			mcp.Description(fmt.Sprintf("Calendar event ID (default: %q)", opts.DefaultEventID)),
		),
	)

	s.AddTool(runTool, common.InstrumentedToolHandler(ToolRun, opts.Metrics, opts.Logger,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRun(ctx, request, runner, opts.DefaultEventID)
		}))

	return nil
}

func handleRun(ctx context.Context, request mcp.CallToolRequest, runner Runner, defaultEventID string) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID := defaultEventID
	if v, ok := args["event_id"].(string); ok && strings.TrimSpace(v) != "" {
		eventID = strings.TrimSpace(v)
	}
	if eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}

	res, err := runner.Run(ctx, eventID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Follow-up workflow failed: %v", err)), nil
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
