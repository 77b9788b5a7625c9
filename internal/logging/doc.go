// Package logging provides structured logging utilities for zoombridge.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "zoom.createMeeting")
//	logger.Info("meeting created",
//	    logging.MeetingID(id),
//	    logging.Status(logging.StatusSuccess))
//
// Tokens are never logged directly; use SanitizeToken for a length-only
// representation.
package logging
