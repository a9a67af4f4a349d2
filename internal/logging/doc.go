// Package logging provides structured logging utilities for zoom-mcp.
//
// Logging uses the standard library's slog package. This package holds the
// shared attribute keys, the handler setup used by the serve command, and
// helpers that keep credentials out of log output.
//
// # Usage Patterns
//
//	logger := logging.NewLogger(os.Stderr, slog.LevelInfo, logging.FormatJSON)
//	logger.Info("listed recordings", logging.Operation("list_recordings"), logging.StatusCode(200))
//
// Tokens travel as tool arguments and must never be logged verbatim:
//
//	logger.Debug("refreshing token", logging.Token(refreshToken))
package logging
