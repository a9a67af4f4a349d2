// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the zoom-mcp server.
//
// # Metrics
//
// Server:
//   - http_requests_total, http_request_duration_seconds: streamable-http requests
//
// Zoom API:
//   - zoom_api_requests_total, zoom_api_request_duration_seconds: outbound calls by
//     operation, templated endpoint and response code
//   - zoom_token_refresh_total: refresh-token exchanges by result
//   - zoom_transcript_downloads_total: transcript files fetched, skipped or failed
//
// MCP tools:
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds
//
// Endpoint labels go through EndpointTemplate so meeting IDs never become
// label values.
//
// # Tracing
//
// Spans are created for tool invocations (tool.<name>) and Zoom client
// operations (zoom.<operation>). Outbound HTTP spans come from otelhttp.
//
// # Configuration
//
// Instrumentation is configured from the environment:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: zoom-mcp)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_MEETING_IDS
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordToolInvocation(ctx, "zoom_list_recordings", "success", "", time.Since(start))
package instrumentation
