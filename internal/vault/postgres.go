package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hearthlabs/hearthcore/internal/common"
	"github.com/hearthlabs/hearthcore/internal/dbx"
)

// PostgresRepository stores records in the vault_records table over
// dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put upserts the record. The single-statement upsert makes replace
// atomic: concurrent writers to the same address resolve last writer
// wins, never an interleaved row.
func (r *PostgresRepository) Put(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO vault_records (user_id, collection, record_id, ciphertext, nonce, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (user_id, collection, record_id)
		DO UPDATE SET ciphertext = EXCLUDED.ciphertext, nonce = EXCLUDED.nonce, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, rec.UserID, rec.Collection, rec.RecordID, rec.Ciphertext, rec.Nonce); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// Get returns the record row or common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, userID, collection, recordID string) (*Record, error) {
	query := `
		SELECT ciphertext, nonce, created_at, updated_at
		FROM vault_records
		WHERE user_id = $1 AND collection = $2 AND record_id = $3
	`
	rec := &Record{UserID: userID, Collection: collection, RecordID: recordID}
	err := r.db.QueryRowContext(ctx, query, userID, collection, recordID).
		Scan(&rec.Ciphertext, &rec.Nonce, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Delete removes the record row. Absent rows are not an error.
func (r *PostgresRepository) Delete(ctx context.Context, userID, collection, recordID string) error {
	query := `
		DELETE FROM vault_records
		WHERE user_id = $1 AND collection = $2 AND record_id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, userID, collection, recordID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns the record IDs in a user's collection.
func (r *PostgresRepository) List(ctx context.Context, userID, collection string) ([]string, error) {
	query := `
		SELECT record_id
		FROM vault_records
		WHERE user_id = $1 AND collection = $2
		ORDER BY record_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}
