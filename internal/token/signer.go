package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hearthlabs/hearthcore/internal/common"
)

// Signer signs and verifies credential payloads with HMAC-SHA256 under
// a process-wide secret. Verification is constant-time (the HS256
// method compares signatures with hmac.Equal) and only HS256 is
// accepted, so a credential cannot downgrade its own algorithm.
//
// A Signer is stateless apart from its immutable secret and is safe
// for concurrent use.
type Signer struct {
	secret []byte
	parser *jwt.Parser
}

// NewSigner builds a Signer for the given secret. now overrides the
// clock used for expiry checks; pass nil for time.Now.
func NewSigner(secret []byte, now func() time.Time) *Signer {
	// Strict decoding rejects non-zero trailing padding bits; without
	// it a bit flip in the unused bits of the final base64 character
	// of the signature segment would still verify.
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}
	return &Signer{
		secret: secret,
		parser: jwt.NewParser(opts...),
	}
}

func (s *Signer) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing credential: %w", err)
	}
	return signed, nil
}

// parse verifies the compact serialization and fills claims, mapping
// library errors onto the core's typed sentinels. It never panics on
// attacker-controlled input.
func (s *Signer) parse(compact string, claims jwt.Claims) error {
	_, err := s.parser.ParseWithClaims(compact, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrExpired
	default:
		// Missing required claims and any other structural defect.
		return common.ErrMalformed
	}
}
