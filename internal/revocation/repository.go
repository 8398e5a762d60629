// Package revocation implements the auxiliary store consulted during
// credential validation. Stateless signed tokens cannot be recalled on
// their own; an explicit revocation record, keyed by the SHA-256 hash
// of the serialized credential, marks a token dead before its natural
// expiry. Records carry the token's remaining lifetime so the store
// never grows past the set of live tokens.
package revocation

import (
	"context"
	"time"
)

// Store is the revocation store contract. Implementations must be safe
// for concurrent readers and writers.
type Store interface {
	// Add records a revocation for tokenHash lasting ttl. Adding the
	// same hash twice is not an error. A non-positive ttl is a no-op:
	// an expired token needs no record.
	Add(ctx context.Context, tokenHash string, ttl time.Duration) error

	// IsRevoked reports whether a live revocation record exists for
	// tokenHash.
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}
