// Package vault stores per-user encrypted records. Every record is
// sealed under the owner's derived key before it reaches a repository,
// so no backend ever sees plaintext. The package performs no scope
// checking: callers must hold a validated consent token or trust link
// for the matching scope before calling in. Keeping policy out of this
// package keeps it verifiable for cryptographic correctness alone.
package vault

import (
	"context"
	"time"
)

// Record is a stored ciphertext addressed by (user, collection,
// record). The GCM authentication tag rides at the end of Ciphertext.
type Record struct {
	UserID     string
	Collection string
	RecordID   string
	Ciphertext []byte
	Nonce      []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Repository is the persistence contract for encrypted records.
// Implementations must support concurrent readers and writers; Put
// replaces any existing record atomically (last writer wins).
type Repository interface {
	// Put stores or replaces the record.
	Put(ctx context.Context, r *Record) error

	// Get returns the record or common.ErrNotFound.
	Get(ctx context.Context, userID, collection, recordID string) (*Record, error)

	// Delete removes the record. Deleting a nonexistent record is not
	// an error.
	Delete(ctx context.Context, userID, collection, recordID string) error

	// List returns the record IDs stored for a user's collection, in
	// lexical order.
	List(ctx context.Context, userID, collection string) ([]string, error)
}
