package audit

import (
	"context"

	"github.com/hearthlabs/hearthcore/internal/logging"
)

// Publisher delivers audit events. Publishing is best-effort: callers
// log failures but never fail the guarded operation because the audit
// channel is down.
type Publisher interface {
	Publish(ctx context.Context, e *Event) error

	// Close releases the publisher's resources.
	Close() error
}

// LogPublisher writes audit events to the structured log. It is the
// fallback when no message broker is configured.
type LogPublisher struct {
	logger logging.Logger
}

// NewLogPublisher builds a publisher over the given logger.
func NewLogPublisher(l logging.Logger) *LogPublisher {
	return &LogPublisher{logger: l.With("module", "audit")}
}

func (p *LogPublisher) Publish(ctx context.Context, e *Event) error {
	p.logger.Info(ctx, "audit event",
		"event_id", e.ID,
		"type", string(e.Type),
		"user_id", e.UserID,
		"agent_id", e.AgentID,
		"grantee_id", e.GranteeID,
		"scopes", e.Scopes,
		"credential_id", e.CredentialID,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
