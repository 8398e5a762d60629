package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/hearthlabs/hearthcore/internal/dbx"
)

// PostgresStore persists revocation records in the revocations table
// over dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type PostgresStore struct {
	db dbx.DBTX
}

// NewPostgresStore constructs a store bound to the given DBTX.
func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add inserts a revocation record expiring at now+ttl. Re-revoking the
// same token keeps the earlier record.
func (s *PostgresStore) Add(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	query := `
		INSERT INTO revocations (token_hash, revoked_at, expires_at)
		VALUES ($1, now(), $2)
		ON CONFLICT (token_hash) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, tokenHash, time.Now().Add(ttl)); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// IsRevoked reports whether a live record exists for tokenHash.
func (s *PostgresStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	query := `
		SELECT count(1)
		FROM revocations
		WHERE token_hash = $1 AND expires_at > now()
	`
	var n int
	if err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// PurgeExpired removes records whose tokens have expired on their own.
// Safe to run periodically from a maintenance job.
func (s *PostgresStore) PurgeExpired(ctx context.Context) error {
	query := `
		DELETE FROM revocations
		WHERE expires_at <= now()
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
