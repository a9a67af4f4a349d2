package common

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// FailureInvalidArguments classifies error results for which the handler
// did not report a kind, which are argument and construction errors.
const FailureInvalidArguments = "invalid_arguments"

type outcome struct {
	kind    string
	message string
}

type outcomeKey struct{}

// ReportFailure tells the surrounding InstrumentedToolHandler how a call
// failed. It is a no-op outside an instrumented handler.
func ReportFailure(ctx context.Context, kind, message string) {
	if o, ok := ctx.Value(outcomeKey{}).(*outcome); ok {
		o.kind = kind
		o.message = message
	}
}

// InstrumentedToolHandler wraps a tool handler with a tool span, metrics and
// audit logging. Credentials in the arguments only reach the audit record as
// a fingerprint.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", "my_operation", sc, handler))
func InstrumentedToolHandler(toolName, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		meetingID := argString(args, "meeting_id")

		invocation := instrumentation.NewToolInvocation(toolName).
			WithOperation(operation).
			WithMeeting(meetingID)
		if token := credentialArg(args); token != "" {
			invocation.WithToken(token)
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithInvocationID(invocation.ID).
				WithOperation(operation).
				WithMeetingID(meetingID).
				Build()...)
		defer span.End()
		invocation.WithSpanContext(ctx)

		out := &outcome{}
		result, err := handler(context.WithValue(ctx, outcomeKey{}, out), request)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			kind, message := out.kind, out.message
			if kind == "" {
				kind, message = FailureInvalidArguments, resultText(result)
			}
			invocation.CompleteWithFailure(kind, message)
			instrumentation.SetSpanFailure(span, kind, message)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), meetingID, invocation.Duration)
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}

// credentialArg returns the token identifying the caller: the access token,
// or the refresh token for calls that only carry that.
func credentialArg(args map[string]any) string {
	if token := argString(args, "zoom_access_token"); token != "" {
		return token
	}
	return argString(args, "zoom_refresh_token")
}

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}
