package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newPrometheusProvider(t *testing.T, detailed bool) (*Provider, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
		DetailedLabels:  detailed,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return provider, ctx
}

// collectSum returns the summed int64 counter value for name across data
// points whose attributes include every entry in match.
func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string, match ...attribute.KeyValue) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				matched := true
				for _, kv := range match {
					v, found := dp.Attributes.Value(kv.Key)
					if !found || v != kv.Value {
						matched = false
						break
					}
				}
				if matched {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestMetrics_RecordZoomRequest(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), false)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordZoomRequest(ctx, OperationListRecordings, "/users/me/recordings", 200, 120*time.Millisecond)
	m.RecordZoomRequest(ctx, OperationGetRecording, "/meetings/{meetingId}/recordings", 401, 80*time.Millisecond)
	m.RecordZoomRequest(ctx, OperationGetRecording, "/meetings/{meetingId}/recordings", 0, 5*time.Millisecond)

	assert.Equal(t, int64(3), collectSum(t, reader, "zoom_api_requests_total"))
	assert.Equal(t, int64(1), collectSum(t, reader, "zoom_api_requests_total", attribute.String(attrCode, "401")))
	assert.Equal(t, int64(1), collectSum(t, reader, "zoom_api_requests_total", attribute.String(attrCode, "transport_error")))
}

func TestMetrics_RecordTokenRefreshAndDownloads(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), false)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordTokenRefresh(ctx, RefreshResultSuccess)
	m.RecordTokenRefresh(ctx, RefreshResultRejected)
	m.RecordTranscriptDownload(ctx, DownloadResultFetched)
	m.RecordTranscriptDownload(ctx, DownloadResultFetched)
	m.RecordTranscriptDownload(ctx, DownloadResultFailed)

	assert.Equal(t, int64(1), collectSum(t, reader, "zoom_token_refresh_total", attribute.String(attrResult, RefreshResultSuccess)))
	assert.Equal(t, int64(2), collectSum(t, reader, "zoom_transcript_downloads_total", attribute.String(attrResult, DownloadResultFetched)))
	assert.Equal(t, int64(1), collectSum(t, reader, "zoom_transcript_downloads_total", attribute.String(attrResult, DownloadResultFailed)))
}

func TestMetrics_ToolInvocationMeetingLabel(t *testing.T) {
	tests := []struct {
		name     string
		detailed bool
		want     int64
	}{
		{name: "meeting label dropped by default", detailed: false, want: 0},
		{name: "meeting label kept with detailed labels", detailed: true, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := sdkmetric.NewManualReader()
			mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

			m, err := NewMetrics(mp.Meter("test"), tt.detailed)
			require.NoError(t, err)

			m.RecordToolInvocation(context.Background(), "zoom_get_meeting_transcript", StatusSuccess, "8127361", time.Second)

			assert.Equal(t, int64(1), collectSum(t, reader, "mcp_tool_invocations_total"))
			assert.Equal(t, tt.want, collectSum(t, reader, "mcp_tool_invocations_total", attribute.String(attrMeeting, "8127361")))
		})
	}
}

func TestMetrics_PrometheusProvider(t *testing.T) {
	provider, ctx := newPrometheusProvider(t, true)

	metrics := provider.Metrics()
	require.NotNil(t, metrics)

	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordZoomRequest(ctx, OperationListRecordings, "/users/me/recordings", 200, time.Second)
	metrics.RecordToolInvocation(ctx, "zoom_list_recordings", StatusSuccess, "", time.Second)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	require.NoError(t, err)

	metrics := provider.Metrics()
	require.NotNil(t, metrics)

	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordZoomRequest(ctx, OperationGetRecording, "/meetings/{meetingId}/recordings", 404, time.Second)
	metrics.RecordTokenRefresh(ctx, RefreshResultSkipped)
	metrics.RecordTranscriptDownload(ctx, DownloadResultSkipped)
	metrics.RecordToolInvocation(ctx, "zoom_refresh_token", StatusError, "", 100*time.Millisecond)

	var nilMetrics *Metrics
	nilMetrics.RecordToolInvocation(ctx, "zoom_refresh_token", StatusError, "", time.Millisecond)
}
