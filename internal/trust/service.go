// Package trust implements delegation between agents. A trust link
// lets one agent act within the consent already granted to another,
// for a short window and a fixed scope set. The one invariant that
// matters: delegated authority can never exceed held authority;
// every requested scope must be covered by a currently valid consent
// token of the grantor, for the same user, at issuance time. Checking
// at issuance (not at use) keeps the decision unambiguous about what
// the grantor held when it delegated.
package trust

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthlabs/hearthcore/internal/audit"
	"github.com/hearthlabs/hearthcore/internal/common"
	"github.com/hearthlabs/hearthcore/internal/consent"
	"github.com/hearthlabs/hearthcore/internal/logging"
	"github.com/hearthlabs/hearthcore/internal/revocation"
	"github.com/hearthlabs/hearthcore/internal/scope"
	"github.com/hearthlabs/hearthcore/internal/token"
)

type Service struct {
	consent     *consent.Service
	revocations revocation.Store
	audit       audit.Publisher
	logger      logging.Logger
	linkTTL     time.Duration
	now         func() time.Time
}

// NewService builds a trust link service sharing the consent service's
// signing secret and revocation store. linkTTL is the fixed lifetime
// of every issued link; policy keeps it short, minutes rather than
// hours, to bound the blast radius of a leaked delegation.
func NewService(consentSvc *consent.Service, revocations revocation.Store, auditPub audit.Publisher, logger logging.Logger, linkTTL time.Duration) *Service {
	return NewServiceWithClock(consentSvc, revocations, auditPub, logger, linkTTL, time.Now)
}

// NewServiceWithClock is NewService with an explicit time source.
func NewServiceWithClock(consentSvc *consent.Service, revocations revocation.Store, auditPub audit.Publisher, logger logging.Logger, linkTTL time.Duration, now func() time.Time) *Service {
	return &Service{
		consent:     consentSvc,
		revocations: revocations,
		audit:       auditPub,
		logger:      logger.With("module", "trust"),
		linkTTL:     linkTTL,
		now:         now,
	}
}

// IssueDelegation grants granteeID the requested scopes over userID's
// data, provided every one of them is covered by a valid consent token
// in grantorTokens held by grantorID for the same user. Coverage is
// all-or-nothing: one uncovered scope fails the whole request with
// ErrEscalationDenied and no link is produced.
func (s *Service) IssueDelegation(ctx context.Context, grantorID, granteeID, userID string, requestedScopes []string, grantorTokens []string) (string, error) {
	if grantorID == "" || granteeID == "" || userID == "" {
		return "", fmt.Errorf("grantor, grantee, and user ids are required: %w", common.ErrMalformed)
	}
	if len(requestedScopes) == 0 {
		return "", fmt.Errorf("no scopes requested: %w", common.ErrMalformed)
	}
	for _, sc := range requestedScopes {
		if !scope.IsKnown(sc) {
			return "", common.ErrUnknownScope
		}
	}

	for _, sc := range requestedScopes {
		if !s.covered(ctx, sc, grantorID, userID, grantorTokens) {
			e := audit.NewEvent(audit.DelegationDenied)
			e.UserID = userID
			e.AgentID = grantorID
			e.GranteeID = granteeID
			e.Scopes = requestedScopes
			s.publish(ctx, e)
			return "", common.ErrEscalationDenied
		}
	}

	issuedAt := s.now()
	claims := &token.TrustLinkClaims{
		GrantorID:   grantorID,
		GranteeID:   granteeID,
		UserID:      userID,
		Scopes:      requestedScopes,
		IssuedAtMS:  issuedAt.UnixMilli(),
		ExpiresAtMS: issuedAt.Add(s.linkTTL).UnixMilli(),
		ID:          uuid.NewString(),
	}

	str, err := s.consent.Signer().EncodeTrustLink(claims)
	if err != nil {
		return "", fmt.Errorf("issuing trust link: %w", err)
	}

	e := audit.NewEvent(audit.DelegationIssued)
	e.UserID = userID
	e.AgentID = grantorID
	e.GranteeID = granteeID
	e.Scopes = requestedScopes
	e.CredentialID = claims.ID
	s.publish(ctx, e)

	return str, nil
}

// covered reports whether any grantor token validates for sc and was
// granted to grantorID over userID's data.
func (s *Service) covered(ctx context.Context, sc, grantorID, userID string, grantorTokens []string) bool {
	for _, tok := range grantorTokens {
		claims, err := s.consent.Validate(ctx, tok, sc)
		if err != nil {
			continue
		}
		if claims.AgentID == grantorID && claims.UserID == userID {
			return true
		}
	}
	return false
}

// VerifyDelegation checks a presented trust link against the scope the
// downstream operation requires: decode, signature, expiry, scope
// membership, revocation.
func (s *Service) VerifyDelegation(ctx context.Context, linkString, requiredScope string) (*token.TrustLinkClaims, error) {
	if !scope.IsKnown(requiredScope) {
		return nil, common.ErrUnknownScope
	}

	claims, err := s.consent.Signer().DecodeTrustLink(linkString)
	if err != nil {
		if errors.Is(err, common.ErrBadSignature) {
			s.logger.Warn(ctx, "trust link signature verification failed",
				"link_hash", common.TokenHash(linkString)[:12])
		}
		return nil, err
	}

	if !claims.HasScope(requiredScope) {
		return nil, common.ErrScopeMismatch
	}

	revoked, err := s.revocations.IsRevoked(ctx, common.TokenHash(linkString))
	if err != nil {
		return nil, fmt.Errorf("revocation lookup: %w", common.ErrInternal)
	}
	if revoked {
		return nil, common.ErrRevoked
	}

	return claims, nil
}

// RevokeDelegation kills a trust link before its natural expiry, the
// same way consent tokens are revoked: no signature check, record kept
// only for the link's remaining lifetime.
func (s *Service) RevokeDelegation(ctx context.Context, linkString string) error {
	claims, err := token.DecodeTrustLinkUnverified(linkString)
	if err != nil {
		return err
	}

	remaining := time.UnixMilli(claims.ExpiresAtMS).Sub(s.now())
	if remaining <= 0 {
		return nil
	}

	if err := s.revocations.Add(ctx, common.TokenHash(linkString), remaining); err != nil {
		return fmt.Errorf("storing revocation: %w", common.ErrInternal)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, e *audit.Event) {
	if err := s.audit.Publish(ctx, e); err != nil {
		s.logger.Warn(ctx, "audit publish failed", "event_type", string(e.Type), "error", err.Error())
	}
}
