package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/zoom-mcp/internal/config"
	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/server"
)

type instrumentedFixture struct {
	sc     *server.ServerContext
	reader *sdkmetric.ManualReader
	audit  *bytes.Buffer
}

func newInstrumentedFixture(t *testing.T) *instrumentedFixture {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	metrics, err := instrumentation.NewMetrics(
		sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	audit := instrumentation.NewAuditLoggerWithConfig(slog.New(slog.NewJSONHandler(&buf, nil)), instrumentation.AuditLoggingConfig{Enabled: true})

	sc, err := server.NewServerContext(context.Background(), config.Default(),
		server.WithMetrics(metrics),
		server.WithAuditLogger(audit),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	return &instrumentedFixture{sc: sc, reader: reader, audit: &buf}
}

func (f *instrumentedFixture) toolCount(t *testing.T, status string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "mcp_tool_invocations_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				if dp.Attributes.HasValue("status") {
					v, _ := dp.Attributes.Value("status")
					if v == attribute.StringValue(status) {
						total += dp.Value
					}
				}
			}
		}
	}
	return total
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	f := newInstrumentedFixture(t)

	called := false
	wrapped := InstrumentedToolHandler("test_tool", "get_recording", f.sc,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			called = true
			return mcp.NewToolResultText("{}"), nil
		})

	result, err := wrapped(context.Background(), callRequest(map[string]any{
		"zoom_access_token": "secret-access-token",
		"meeting_id":        float64(85746065432),
	}))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, called)
	assert.Equal(t, int64(1), f.toolCount(t, instrumentation.StatusSuccess))

	logged := f.audit.String()
	assert.Contains(t, logged, "tool_executed")
	assert.Contains(t, logged, `"operation":"get_recording"`)
	assert.NotContains(t, logged, "secret-access-token")
	assert.NotContains(t, logged, "85746065432", "meeting IDs are fingerprinted by default")
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	f := newInstrumentedFixture(t)

	expectedErr := errors.New("test error")
	wrapped := InstrumentedToolHandler("test_tool", "op", f.sc,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, expectedErr
		})

	_, err := wrapped(context.Background(), callRequest(nil))

	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, int64(1), f.toolCount(t, instrumentation.StatusError))
	assert.Contains(t, f.audit.String(), `"error_kind":"internal"`)
}

func TestInstrumentedToolHandler_ReportedFailure(t *testing.T) {
	f := newInstrumentedFixture(t)

	wrapped := InstrumentedToolHandler("test_tool", "op", f.sc,
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ReportFailure(ctx, "unauthorized", "token expired")
			return mcp.NewToolResultError(`{"error":"Unauthorized"}`), nil
		})

	result, err := wrapped(context.Background(), callRequest(map[string]any{"zoom_refresh_token": "rt"}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, int64(1), f.toolCount(t, instrumentation.StatusError))

	logged := f.audit.String()
	assert.Contains(t, logged, "tool_failed")
	assert.Contains(t, logged, `"error_kind":"unauthorized"`)
	assert.NotContains(t, logged, `"rt"`)
}

func TestInstrumentedToolHandler_UnreportedErrorResult(t *testing.T) {
	f := newInstrumentedFixture(t)

	wrapped := InstrumentedToolHandler("test_tool", "op", f.sc,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("Error: meeting_id is required"), nil
		})

	result, err := wrapped(context.Background(), callRequest(nil))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, f.audit.String(), `"error_kind":"invalid_arguments"`)
}

func TestInstrumentedToolHandler_WithoutInstrumentation(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(), config.Default())
	require.NoError(t, err)
	defer sc.Shutdown()

	wrapped := InstrumentedToolHandler("test_tool", "op", sc,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("ok"), nil
		})

	result, err := wrapped(context.Background(), callRequest(nil))

	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestReportFailure_OutsideHandler(t *testing.T) {
	assert.NotPanics(t, func() {
		ReportFailure(context.Background(), "kind", "msg")
	})
}
