// Package common holds helpers shared by MCP tool packages.
package common
