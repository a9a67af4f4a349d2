package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/zoom-mcp/internal/logging"
)

// ToolInvocation captures one MCP tool call for audit logging.
//
// Credentials are never stored on the invocation. The caller's access or
// refresh token is reduced to a fingerprint so separate calls made with the
// same token can be correlated.
type ToolInvocation struct {
	// ID is a random identifier assigned at creation
	ID string

	Tool      string
	Operation string

	// TokenFingerprint identifies the credential used, see logging.TokenFingerprint
	TokenFingerprint string

	// MeetingID is the raw meeting ID or UUID when the tool targets one meeting
	MeetingID string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	// ErrorKind is the result classification for failed calls, e.g. "unauthorized"
	ErrorKind string
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation creates a new ToolInvocation with timing started.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		ID:        uuid.NewString(),
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithOperation sets the Zoom operation.
func (ti *ToolInvocation) WithOperation(operation string) *ToolInvocation {
	ti.Operation = operation
	return ti
}

// WithToken records the fingerprint of token.
func (ti *ToolInvocation) WithToken(token string) *ToolInvocation {
	ti.TokenFingerprint = logging.TokenFingerprint(token)
	return ti
}

// WithMeeting sets the target meeting.
func (ti *ToolInvocation) WithMeeting(meetingID string) *ToolInvocation {
	ti.MeetingID = meetingID
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = GetTraceID(ctx)
	ti.SpanID = GetSpanID(ctx)
	return ti
}

// Status returns "success" or "error".
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = true
	return ti
}

// CompleteWithFailure marks the invocation as failed with a classified reason.
func (ti *ToolInvocation) CompleteWithFailure(kind, message string) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = false
	ti.ErrorKind = kind
	ti.Error = message
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return ti.CompleteWithFailure("internal", message)
}

// LogAttrs returns the slog attributes for this invocation. Meeting IDs are
// written raw only when includeMeetingIDs is set, otherwise as a fingerprint.
func (ti *ToolInvocation) LogAttrs(includeMeetingIDs bool) []slog.Attr {
	attrs := []slog.Attr{
		logging.InvocationID(ti.ID),
		logging.Tool(ti.Tool),
		slog.Duration(logging.KeyDuration, ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Operation != "" {
		attrs = append(attrs, logging.Operation(ti.Operation))
	}
	if ti.TokenFingerprint != "" {
		attrs = append(attrs, slog.String(logging.KeyToken, ti.TokenFingerprint))
	}
	if ti.MeetingID != "" {
		if includeMeetingIDs {
			attrs = append(attrs, logging.MeetingID(ti.MeetingID))
		} else {
			attrs = append(attrs, logging.MeetingID(logging.Fingerprint("mtg", ti.MeetingID)))
		}
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.ErrorKind != "" {
		attrs = append(attrs, slog.String("error_kind", ti.ErrorKind))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, ti.Error))
	}

	return attrs
}

// AuditLogger writes one structured record per tool invocation.
type AuditLogger struct {
	logger            *slog.Logger
	includeMeetingIDs bool
	enabled           bool
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:            logger.With(slog.String("component", "audit")),
		includeMeetingIDs: config.IncludeMeetingIDs,
		enabled:           config.Enabled,
	}
}

// LogToolInvocation writes the audit record for ti.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	attrs := ti.LogAttrs(al.includeMeetingIDs)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Info("tool_executed", args...)
	} else {
		al.logger.Warn("tool_failed", args...)
	}
}
