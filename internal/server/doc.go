// Package server provides the MCP server context and the HTTP surfaces of
// zoom-mcp.
//
// # Key Components
//
// ServerContext holds the configuration, the shared outbound HTTP client and
// the instrumentation used by every tool call. It builds a fresh zoom.Client
// per call from the caller's credentials; nothing credential-related is kept
// between calls.
//
// HTTPServer serves the streamable HTTP transport on /mcp together with the
// health endpoints, routed with chi.
//
// SessionManager issues and tracks MCP session IDs for the streamable HTTP
// transport.
//
// MetricsServer exposes the Prometheus registry on a dedicated port.
//
// HealthChecker implements the /healthz, /readyz and /healthz/detailed probes.
package server
