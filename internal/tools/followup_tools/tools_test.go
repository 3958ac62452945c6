package followup_tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meetfollow/internal/analysis"
	"github.com/teemow/meetfollow/internal/calendar"
	"github.com/teemow/meetfollow/internal/instrumentation"
	"github.com/teemow/meetfollow/internal/transcript"
	"github.com/teemow/meetfollow/internal/workflow"
)

type recordingRunner struct {
	eventIDs []string
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, eventID string) (*workflow.Result, error) {
	r.eventIDs = append(r.eventIDs, eventID)
	if r.err != nil {
		return nil, r.err
	}
	return &workflow.Result{RunID: "run-1", Mode: instrumentation.ModeMock}, nil
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      ToolRun,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestRegisterFollowupTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))

	assert.NoError(t, RegisterFollowupTools(s, &recordingRunner{}, Options{DefaultEventID: "abc123"}))
	assert.Error(t, RegisterFollowupTools(s, nil, Options{}))
}

func TestHandleRun_EventID(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{name: "default", args: map[string]interface{}{}, want: "abc123"},
		{name: "blank falls back", args: map[string]interface{}{"event_id": "  "}, want: "abc123"},
		{name: "explicit", args: map[string]interface{}{"event_id": "evt42"}, want: "evt42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{}
			res, err := handleRun(context.Background(), callRequest(tt.args), runner, "abc123")
			require.NoError(t, err)
			assert.False(t, res.IsError)
			assert.Equal(t, []string{tt.want}, runner.eventIDs)
		})
	}
}

func TestHandleRun_NoEventID(t *testing.T) {
	runner := &recordingRunner{}
	res, err := handleRun(context.Background(), callRequest(nil), runner, "")
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, runner.eventIDs)
}

func TestHandleRun_WorkflowError(t *testing.T) {
	runner := &recordingRunner{err: errors.New("fetch_event: boom")}
	res, err := handleRun(context.Background(), callRequest(nil), runner, "abc123")
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "fetch_event: boom")
}

func TestHandleRun_MockWorkflow(t *testing.T) {
	wf := workflow.New(workflow.Deps{
		Calendar:    calendar.NewMockClient(nil),
		Transcripts: transcript.NewMock(nil),
		Analyzer:    analysis.NewMock(nil),
		Mode:        instrumentation.ModeMock,
	})

	res, err := handleRun(context.Background(), callRequest(nil), wf, calendar.MockEventID)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got workflow.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, instrumentation.ModeMock, got.Mode)
	assert.Equal(t, "Follow-up meeting required to finalize results.", got.Analysis.Summary)
	require.NotNil(t, got.Followup)
	assert.Equal(t, calendar.MockFollowupLink, got.Followup.HTMLLink)
}
