package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// withSpanRecorder installs a recording tracer provider for the duration of the test.
func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{}, len(attrs))
	for _, attr := range attrs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}
	return m
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithInvocationID("inv-1").
		WithOperation(OperationGetTranscript).
		WithMeetingID("8127361").
		Build()

	require.Len(t, attrs, 3)
	m := attrMap(attrs)
	assert.Equal(t, "inv-1", m[SpanAttrInvocationID])
	assert.Equal(t, OperationGetTranscript, m[SpanAttrOperation])
	assert.Equal(t, "8127361", m[SpanAttrMeetingID])
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithInvocationID("").
		WithMeetingID("").
		Build()

	assert.Empty(t, attrs)
}

func TestStartToolSpan(t *testing.T) {
	recorder := withSpanRecorder(t)

	ctx, span := StartToolSpan(context.Background(), "zoom_list_recordings")
	assert.NotEmpty(t, GetTraceID(ctx))
	assert.NotEmpty(t, GetSpanID(ctx))
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "tool.zoom_list_recordings", ended[0].Name())
	assert.Equal(t, trace.SpanKindServer, ended[0].SpanKind())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Equal(t, "zoom_list_recordings", attrMap(ended[0].Attributes())[SpanAttrTool])
}

func TestStartZoomSpan_Failure(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartZoomSpan(context.Background(), OperationGetRecording,
		attribute.String(SpanAttrMeetingID, "42"))
	SetSpanFailure(span, "unauthorized", "token expired")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "zoom.get_recording", ended[0].Name())
	assert.Equal(t, trace.SpanKindInternal, ended[0].SpanKind())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "token expired", ended[0].Status().Description)

	m := attrMap(ended[0].Attributes())
	assert.Equal(t, "unauthorized", m[SpanAttrErrorKind])
	assert.Equal(t, "42", m[SpanAttrMeetingID])
}

func TestSetSpanError(t *testing.T) {
	recorder := withSpanRecorder(t)

	_, span := StartZoomSpan(context.Background(), OperationListRecordings)
	SetSpanError(span, nil)
	SetSpanError(span, errors.New("connection reset"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	require.Len(t, ended[0].Events(), 1)
}

func TestTraceIDs_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}
