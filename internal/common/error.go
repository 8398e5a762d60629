// Package common contains shared sentinel errors and small utilities
// used across the Hearth security core. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Credential validation errors, in the order the checks run.
	ErrMalformed     = errors.New("malformed credential")
	ErrBadSignature  = errors.New("bad signature")
	ErrExpired       = errors.New("credential expired")
	ErrScopeMismatch = errors.New("scope mismatch")
	ErrRevoked       = errors.New("credential revoked")

	// Issuance preconditions.
	ErrUnknownScope = errors.New("unknown scope")
	ErrInvalidTTL   = errors.New("invalid ttl")

	// Delegation errors.
	ErrEscalationDenied = errors.New("delegation exceeds granted authority")

	// Vault errors. ErrDecryptionFailed is deliberately generic: the
	// caller must not be able to tell a wrong key from tampered or
	// corrupted ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrNotFound         = errors.New("not found")

	// Internal flow control.
	ErrInternal = errors.New("internal error")
)
