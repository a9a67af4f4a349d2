package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation    = "operation"
	KeyTool         = "tool"
	KeyMeetingID    = "meeting_id"
	KeyStatusCode   = "status_code"
	KeyStatus       = "status"
	KeyError        = "error"
	KeyToken        = "token"
	KeyInvocationID = "invocation_id"
	KeyFileName     = "file_name"
	KeyDuration     = "duration"
)

// Status values for consistent logging.
// Duplicated from instrumentation, which imports this package.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// MeetingID returns a slog attribute for a Zoom meeting ID or UUID.
func MeetingID(id string) slog.Attr {
	return slog.String(KeyMeetingID, id)
}

// StatusCode returns a slog attribute for an upstream HTTP status code.
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// InvocationID returns a slog attribute for a tool invocation ID.
func InvocationID(id string) slog.Attr {
	return slog.String(KeyInvocationID, id)
}

// FileName returns a slog attribute for a recording file name.
func FileName(name string) slog.Attr {
	return slog.String(KeyFileName, name)
}

// Err returns a slog attribute for an error.
// A nil error yields an empty group, which slog omits from output.
//
//	logger.Info("operation", logging.Err(err))  // safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// Fingerprint returns a short, stable hash of value with the given prefix.
// It lets log lines be correlated without exposing the value itself.
func Fingerprint(prefix, value string) string {
	if value == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(value))
	return prefix + ":" + hex.EncodeToString(hash[:6])
}

// TokenFingerprint returns the fingerprint of an OAuth token.
func TokenFingerprint(token string) string {
	return Fingerprint("tok", token)
}

// Token returns a slog attribute identifying a token by fingerprint.
//
//	logger.Debug("refreshing", logging.Token(refreshToken))
func Token(token string) slog.Attr {
	if token == "" {
		return slog.String(KeyToken, SanitizeToken(token))
	}
	return slog.String(KeyToken, TokenFingerprint(token))
}

// SanitizeToken returns a masked version of a token for logging.
// Only the length is exposed.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
