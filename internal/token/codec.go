package token

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hearthlabs/hearthcore/internal/common"
	"github.com/hearthlabs/hearthcore/internal/scope"
)

// Credential string prefixes. The prefix is part of the wire format
// and distinguishes consent tokens from trust links before any
// cryptographic work.
const (
	ConsentPrefix   = "HCT:"
	TrustLinkPrefix = "HTL:"
)

// EncodeConsent signs the claims and returns the serialized consent
// token string.
func (s *Signer) EncodeConsent(c *ConsentClaims) (string, error) {
	compact, err := s.sign(*c)
	if err != nil {
		return "", err
	}
	return ConsentPrefix + compact, nil
}

// DecodeConsent verifies and decodes a consent token string. The
// signature, expiry, structural shape, and scope registry membership
// are all checked here; revocation is the caller's concern.
func (s *Signer) DecodeConsent(str string) (*ConsentClaims, error) {
	compact, ok := strings.CutPrefix(str, ConsentPrefix)
	if !ok {
		return nil, common.ErrMalformed
	}
	claims := &ConsentClaims{}
	if err := s.parse(compact, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" || claims.AgentID == "" {
		return nil, common.ErrMalformed
	}
	if !scope.IsKnown(claims.Scope) {
		return nil, common.ErrMalformed
	}
	return claims, nil
}

// EncodeTrustLink signs the claims and returns the serialized trust
// link string.
func (s *Signer) EncodeTrustLink(c *TrustLinkClaims) (string, error) {
	compact, err := s.sign(*c)
	if err != nil {
		return "", err
	}
	return TrustLinkPrefix + compact, nil
}

// DecodeTrustLink verifies and decodes a trust link string.
func (s *Signer) DecodeTrustLink(str string) (*TrustLinkClaims, error) {
	compact, ok := strings.CutPrefix(str, TrustLinkPrefix)
	if !ok {
		return nil, common.ErrMalformed
	}
	claims := &TrustLinkClaims{}
	if err := s.parse(compact, claims); err != nil {
		return nil, err
	}
	if claims.GrantorID == "" || claims.GranteeID == "" || claims.UserID == "" {
		return nil, common.ErrMalformed
	}
	if len(claims.Scopes) == 0 {
		return nil, common.ErrMalformed
	}
	for _, sc := range claims.Scopes {
		if !scope.IsKnown(sc) {
			return nil, common.ErrMalformed
		}
	}
	return claims, nil
}

// DecodeConsentUnverified decodes a consent token without checking its
// signature or expiry. Revocation uses this: revoking a forged or
// expired token is harmless, so no proof of authenticity is required.
func DecodeConsentUnverified(str string) (*ConsentClaims, error) {
	compact, ok := strings.CutPrefix(str, ConsentPrefix)
	if !ok {
		return nil, common.ErrMalformed
	}
	claims := &ConsentClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(compact, claims); err != nil {
		return nil, common.ErrMalformed
	}
	return claims, nil
}

// DecodeTrustLinkUnverified decodes a trust link without verification,
// for revocation of leaked delegations.
func DecodeTrustLinkUnverified(str string) (*TrustLinkClaims, error) {
	compact, ok := strings.CutPrefix(str, TrustLinkPrefix)
	if !ok {
		return nil, common.ErrMalformed
	}
	claims := &TrustLinkClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(compact, claims); err != nil {
		return nil, common.ErrMalformed
	}
	return claims, nil
}
