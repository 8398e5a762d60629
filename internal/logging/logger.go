// Package logging defines the minimal structured-logging interface used
// across the core. Implementations can wrap slog, zap, zerolog, etc.
//
// Nothing in this package (or its callers) may log secret material:
// signing secrets, vault salts, derived keys, or full token strings.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// interpreted as key-value pairs:
//
//	log.Info(ctx, "token issued", "agent_id", agentID, "scope", scope)
type Logger interface {
	// Debug logs a verbose diagnostic message.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning for unusual but non-fatal conditions,
	// including security events like signature verification failures.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given
	// key-value pairs.
	With(args ...any) Logger
}
