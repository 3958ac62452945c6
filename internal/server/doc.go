// Package server runs the HTTP side of `meetfollow serve`: a dedicated
// listener exposing Prometheus metrics on /metrics and health probes on
// /healthz and /readyz. The MCP tool itself is served over stdio.
package server
