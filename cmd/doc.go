// Package cmd implements the command-line interface for meetfollow.
//
// This package provides the following commands:
//   - run: Run the meeting follow-up workflow once
//   - serve: Start the MCP server exposing the workflow as a tool
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for the MCP tools
//
// The run command is the default command when no subcommand is specified.
package cmd
