// Package token implements the wire codec and HMAC-SHA256
// signer/verifier for consent tokens and trust links.
//
// A serialized credential is a fixed prefix ("HCT:" for consent
// tokens, "HTL:" for trust links) followed by a compact HS256 JWS:
// base64url-encoded canonical payload and signature separated by '.'.
// Encoding is canonical: identical logical fields always serialize to
// identical bytes, so signatures are reproducible. Timestamps are
// carried as milliseconds since epoch.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ConsentClaims is the payload of a consent token: a grant from a user
// to an agent for exactly one scope within a bounded time window.
// Multiple scopes require multiple tokens.
type ConsentClaims struct {
	UserID      string `json:"uid"`
	AgentID     string `json:"agt"`
	Scope       string `json:"scp"`
	IssuedAtMS  int64  `json:"iat"`
	ExpiresAtMS int64  `json:"exp"`
	ID          string `json:"jti"`
}

func (c ConsentClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return msDate(c.ExpiresAtMS), nil
}

func (c ConsentClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return msDate(c.IssuedAtMS), nil
}

func (c ConsentClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c ConsentClaims) GetIssuer() (string, error)              { return "", nil }
func (c ConsentClaims) GetSubject() (string, error)             { return c.UserID, nil }
func (c ConsentClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// TrustLinkClaims is the payload of a trust link: a short-lived
// delegation from one agent to another, bounded to a subset of the
// scopes the grantor held valid consent tokens for at issuance time.
type TrustLinkClaims struct {
	GrantorID   string   `json:"gtr"`
	GranteeID   string   `json:"gte"`
	UserID      string   `json:"uid"`
	Scopes      []string `json:"scps"`
	IssuedAtMS  int64    `json:"iat"`
	ExpiresAtMS int64    `json:"exp"`
	ID          string   `json:"jti"`
}

func (c TrustLinkClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return msDate(c.ExpiresAtMS), nil
}

func (c TrustLinkClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return msDate(c.IssuedAtMS), nil
}

func (c TrustLinkClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c TrustLinkClaims) GetIssuer() (string, error)              { return "", nil }
func (c TrustLinkClaims) GetSubject() (string, error)             { return c.UserID, nil }
func (c TrustLinkClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// HasScope reports whether s is among the delegated scopes.
func (c TrustLinkClaims) HasScope(s string) bool {
	for _, have := range c.Scopes {
		if have == s {
			return true
		}
	}
	return false
}

// msDate converts epoch milliseconds to a jwt.NumericDate without the
// second-level truncation jwt.NewNumericDate applies, so the expiry
// boundary stays millisecond-exact.
func msDate(ms int64) *jwt.NumericDate {
	if ms == 0 {
		return nil
	}
	return &jwt.NumericDate{Time: time.UnixMilli(ms)}
}
