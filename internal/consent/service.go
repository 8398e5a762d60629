// Package consent implements issuance, validation, and revocation of
// consent tokens. Tokens are bearer credentials: validation needs no
// server-side session, only the signing secret and a revocation
// lookup. The service is stateless and safe for concurrent use; shared
// mutable state lives entirely in the revocation store.
package consent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthlabs/hearthcore/internal/audit"
	"github.com/hearthlabs/hearthcore/internal/common"
	"github.com/hearthlabs/hearthcore/internal/logging"
	"github.com/hearthlabs/hearthcore/internal/revocation"
	"github.com/hearthlabs/hearthcore/internal/scope"
	"github.com/hearthlabs/hearthcore/internal/token"
)

type Service struct {
	signer      *token.Signer
	revocations revocation.Store
	audit       audit.Publisher
	logger      logging.Logger
	maxTTL      time.Duration
	now         func() time.Time
}

// NewService builds a consent token service over the process signing
// secret. maxTTL bounds how long any issued token may live.
func NewService(secret []byte, revocations revocation.Store, auditPub audit.Publisher, logger logging.Logger, maxTTL time.Duration) *Service {
	return NewServiceWithClock(secret, revocations, auditPub, logger, maxTTL, time.Now)
}

// NewServiceWithClock is NewService with an explicit time source, used
// by tests to pin the clock at expiry boundaries.
func NewServiceWithClock(secret []byte, revocations revocation.Store, auditPub audit.Publisher, logger logging.Logger, maxTTL time.Duration, now func() time.Time) *Service {
	return &Service{
		signer:      token.NewSigner(secret, now),
		revocations: revocations,
		audit:       auditPub,
		logger:      logger.With("module", "consent"),
		maxTTL:      maxTTL,
		now:         now,
	}
}

// Signer exposes the service's signer for components that issue
// credentials under the same secret (the trust link service).
func (s *Service) Signer() *token.Signer {
	return s.signer
}

// Issue creates a signed consent token granting agentID the given
// scope over userID's data for ttl. The scope must be registered and
// 0 < ttl <= the configured maximum. Nothing is persisted: the token
// string itself is the grant.
func (s *Service) Issue(ctx context.Context, userID, agentID, scopeName string, ttl time.Duration) (string, error) {
	if userID == "" || agentID == "" {
		return "", fmt.Errorf("user id and agent id are required: %w", common.ErrMalformed)
	}
	if !scope.IsKnown(scopeName) {
		return "", common.ErrUnknownScope
	}
	if ttl <= 0 || ttl > s.maxTTL {
		return "", common.ErrInvalidTTL
	}

	issuedAt := s.now()
	claims := &token.ConsentClaims{
		UserID:      userID,
		AgentID:     agentID,
		Scope:       scopeName,
		IssuedAtMS:  issuedAt.UnixMilli(),
		ExpiresAtMS: issuedAt.Add(ttl).UnixMilli(),
		ID:          uuid.NewString(),
	}

	str, err := s.signer.EncodeConsent(claims)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	e := audit.NewEvent(audit.TokenIssued)
	e.UserID = userID
	e.AgentID = agentID
	e.Scopes = []string{scopeName}
	e.CredentialID = claims.ID
	s.publish(ctx, e)

	return str, nil
}

// Validate checks a presented token string against the scope the
// caller's operation requires. Checks run in a fixed order (decode,
// signature, expiry, scope, revocation) and the first failure wins.
// Scopes are not hierarchical: only an exact match passes.
func (s *Service) Validate(ctx context.Context, tokenString, expectedScope string) (*token.ConsentClaims, error) {
	if !scope.IsKnown(expectedScope) {
		return nil, common.ErrUnknownScope
	}

	claims, err := s.signer.DecodeConsent(tokenString)
	if err != nil {
		if errors.Is(err, common.ErrBadSignature) {
			// Security event. Log a hash prefix, never the token.
			s.logger.Warn(ctx, "token signature verification failed",
				"token_hash", common.TokenHash(tokenString)[:12])
		}
		return nil, err
	}

	if claims.Scope != expectedScope {
		return nil, common.ErrScopeMismatch
	}

	revoked, err := s.revocations.IsRevoked(ctx, common.TokenHash(tokenString))
	if err != nil {
		return nil, fmt.Errorf("revocation lookup: %w", common.ErrInternal)
	}
	if revoked {
		return nil, common.ErrRevoked
	}

	return claims, nil
}

// Revoke marks a token dead for the remainder of its lifetime. No
// signature check happens: revoking a forged token is harmless, and
// refusing to revoke on a bad signature would help nobody. Revoking an
// already-expired token is a successful no-op.
func (s *Service) Revoke(ctx context.Context, tokenString string) error {
	claims, err := token.DecodeConsentUnverified(tokenString)
	if err != nil {
		return err
	}

	remaining := time.UnixMilli(claims.ExpiresAtMS).Sub(s.now())
	if remaining <= 0 {
		return nil
	}

	if err := s.revocations.Add(ctx, common.TokenHash(tokenString), remaining); err != nil {
		return fmt.Errorf("storing revocation: %w", common.ErrInternal)
	}

	e := audit.NewEvent(audit.TokenRevoked)
	e.UserID = claims.UserID
	e.AgentID = claims.AgentID
	e.Scopes = []string{claims.Scope}
	e.CredentialID = claims.ID
	s.publish(ctx, e)

	return nil
}

func (s *Service) publish(ctx context.Context, e *audit.Event) {
	if err := s.audit.Publish(ctx, e); err != nil {
		s.logger.Warn(ctx, "audit publish failed", "event_type", string(e.Type), "error", err.Error())
	}
}
