// Package cryptox provides the vault's cryptographic primitives:
// deterministic per-user key derivation and authenticated encryption
// of record payloads.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/hearthlabs/hearthcore/internal/common"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// NonceSize is the AES-GCM nonce length in bytes. A fresh random nonce
// is generated for every encryption; a nonce is never reused under the
// same key.
const NonceSize = 12

// keyInfo domain-separates vault keys from any future use of the same
// salt.
const keyInfo = "hearth.vault.key.v1"

// DeriveUserKey derives the per-user AES-256 key from the user ID and
// the process-wide vault salt using HKDF-SHA256. The same user always
// yields the same key; distinct users are uncorrelatable without the
// salt. Consent tokens never enter key material: a token only gates
// access, so a forged token is useless for deriving a real key.
//
// Callers should wipe the returned key after use.
func DeriveUserKey(userID string, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("vault salt is empty: %w", common.ErrInternal)
	}
	r := hkdf.New(sha256.New, salt, []byte(userID), []byte(keyInfo))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("key derivation: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext with AES-256-GCM under key, binding aad into
// the authentication tag. The ciphertext (tag appended, per GCM
// convention) and the random nonce are returned separately.
func Encrypt(plaintext, key, aad []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("nonce generation: %w", err)
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens a sealed payload. Any authentication failure (wrong
// key, tampered ciphertext, mismatched aad, corrupted nonce) returns
// common.ErrDecryptionFailed with no further detail and no partial
// plaintext.
func Decrypt(ciphertext, nonce, key, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, common.ErrDecryptionFailed
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, common.ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}
	return aesgcm, nil
}
