package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// TokenHash returns the hex-encoded SHA-256 hash of a serialized
// credential string. Revocation records are keyed by this hash so the
// stores never hold raw token material.
func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// MakeRandHexString generates a random hexadecimal string from size
// random bytes. The resulting string is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of b with zeros. Used to clear
// key material from memory after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
