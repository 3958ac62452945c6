// Package followup_tools exposes the meeting follow-up workflow as an MCP tool.
//
// Available tools:
//   - meeting_followup_run: run the workflow for one calendar event and
//     return the run result as JSON
package followup_tools
