// Package logging is the structured logging surface shared by the server,
// its HTTP middleware and the useradmin command.
package logging

import "context"

// Logger logs a message with alternating key/value args:
//
//	log.Warn(ctx, "logout without session cookie", "request_id", id)
//
// Callers must never pass passwords, hashes or raw tokens as values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every entry.
	With(args ...any) Logger
}
