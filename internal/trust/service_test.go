package trust

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hearthlabs/hearthcore/internal/audit"
	"github.com/hearthlabs/hearthcore/internal/common"
	"github.com/hearthlabs/hearthcore/internal/consent"
	"github.com/hearthlabs/hearthcore/internal/logging"
	"github.com/hearthlabs/hearthcore/internal/revocation"
)

type fixture struct {
	consent *consent.Service
	trust   *Service
	now     *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.UnixMilli(1700000000000)
	clock := func() time.Time { return now }

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	auditPub := audit.NewLogPublisher(logger)
	revs := revocation.NewMemoryStore(clock)

	cs := consent.NewServiceWithClock([]byte("secret"), revs, auditPub, logger, time.Hour, clock)
	ts := NewServiceWithClock(cs, revs, auditPub, logger, 5*time.Minute, clock)
	return &fixture{consent: cs, trust: ts, now: &now}
}

func (f *fixture) issue(t *testing.T, userID, agentID, scopeName string) string {
	t.Helper()
	str, err := f.consent.Issue(context.Background(), userID, agentID, scopeName, time.Hour)
	if err != nil {
		t.Fatalf("Issue(%s) error: %v", scopeName, err)
	}
	return str
}

func TestIssueDelegation_CoveredScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grantorTokens := []string{
		f.issue(t, "u1", "mailer", "vault.read.email"),
		f.issue(t, "u1", "mailer", "vault.write.calendar"),
	}

	link, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email", "vault.write.calendar"}, grantorTokens)
	if err != nil {
		t.Fatalf("IssueDelegation error: %v", err)
	}
	if !strings.HasPrefix(link, "HTL:") {
		t.Fatalf("link missing HTL prefix: %q", link[:8])
	}

	claims, err := f.trust.VerifyDelegation(ctx, link, "vault.read.email")
	if err != nil {
		t.Fatalf("VerifyDelegation error: %v", err)
	}
	if claims.GrantorID != "mailer" || claims.GranteeID != "scheduler" || claims.UserID != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAtMS-claims.IssuedAtMS != (5 * time.Minute).Milliseconds() {
		t.Fatalf("link ttl not the short policy ttl: %d ms", claims.ExpiresAtMS-claims.IssuedAtMS)
	}
}

func TestIssueDelegation_EscalationDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grantorTokens := []string{f.issue(t, "u1", "mailer", "vault.read.email")}

	// One covered scope plus one uncovered scope: the whole request
	// fails, no partial grant.
	_, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email", "vault.read.finance"}, grantorTokens)
	if !errors.Is(err, common.ErrEscalationDenied) {
		t.Fatalf("want ErrEscalationDenied, got %v", err)
	}
}

func TestIssueDelegation_WrongHolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Token granted to a different agent does not cover the grantor.
	otherAgent := []string{f.issue(t, "u1", "archivist", "vault.read.email")}
	_, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email"}, otherAgent)
	if !errors.Is(err, common.ErrEscalationDenied) {
		t.Fatalf("foreign agent token: want ErrEscalationDenied, got %v", err)
	}

	// Token for a different user does not cover this user.
	otherUser := []string{f.issue(t, "u2", "mailer", "vault.read.email")}
	_, err = f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email"}, otherUser)
	if !errors.Is(err, common.ErrEscalationDenied) {
		t.Fatalf("foreign user token: want ErrEscalationDenied, got %v", err)
	}
}

func TestIssueDelegation_ExpiredAndRevokedDontCover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tok := f.issue(t, "u1", "mailer", "vault.read.email")

	if err := f.consent.Revoke(ctx, tok); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	_, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email"}, []string{tok})
	if !errors.Is(err, common.ErrEscalationDenied) {
		t.Fatalf("revoked grantor token: want ErrEscalationDenied, got %v", err)
	}

	fresh := f.issue(t, "u1", "mailer", "vault.read.email")
	*f.now = f.now.Add(2 * time.Hour)
	_, err = f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email"}, []string{fresh})
	if !errors.Is(err, common.ErrEscalationDenied) {
		t.Fatalf("expired grantor token: want ErrEscalationDenied, got %v", err)
	}
}

func TestIssueDelegation_InputValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.trust.IssueDelegation(ctx, "", "scheduler", "u1", []string{"vault.read.email"}, nil); err == nil {
		t.Fatal("empty grantor accepted")
	}
	if _, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1", nil, nil); err == nil {
		t.Fatal("empty scope set accepted")
	}
	if _, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.passwords"}, nil); !errors.Is(err, common.ErrUnknownScope) {
		t.Fatalf("want ErrUnknownScope, got %v", err)
	}
}

func TestVerifyDelegation_ScopeMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grantorTokens := []string{f.issue(t, "u1", "mailer", "vault.read.email")}
	link, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email"}, grantorTokens)
	if err != nil {
		t.Fatalf("IssueDelegation error: %v", err)
	}

	if _, err := f.trust.VerifyDelegation(ctx, link, "vault.write.email"); !errors.Is(err, common.ErrScopeMismatch) {
		t.Fatalf("want ErrScopeMismatch, got %v", err)
	}
	if _, err := f.trust.VerifyDelegation(ctx, link, "not.a.scope"); !errors.Is(err, common.ErrUnknownScope) {
		t.Fatalf("want ErrUnknownScope, got %v", err)
	}
}

func TestVerifyDelegation_ExpiresQuickly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grantorTokens := []string{f.issue(t, "u1", "mailer", "vault.read.email")}
	link, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email"}, grantorTokens)
	if err != nil {
		t.Fatalf("IssueDelegation error: %v", err)
	}

	// The grantor's consent outlives the link by design.
	*f.now = f.now.Add(5 * time.Minute)
	if _, err := f.trust.VerifyDelegation(ctx, link, "vault.read.email"); !errors.Is(err, common.ErrExpired) {
		t.Fatalf("want ErrExpired after link ttl, got %v", err)
	}
	if _, err := f.consent.Validate(ctx, grantorTokens[0], "vault.read.email"); err != nil {
		t.Fatalf("grantor consent should still be valid, got %v", err)
	}
}

func TestRevokeDelegation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grantorTokens := []string{f.issue(t, "u1", "mailer", "vault.read.email")}
	link, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email"}, grantorTokens)
	if err != nil {
		t.Fatalf("IssueDelegation error: %v", err)
	}

	if err := f.trust.RevokeDelegation(ctx, link); err != nil {
		t.Fatalf("RevokeDelegation error: %v", err)
	}
	if _, err := f.trust.VerifyDelegation(ctx, link, "vault.read.email"); !errors.Is(err, common.ErrRevoked) {
		t.Fatalf("want ErrRevoked, got %v", err)
	}

	// Revoking the link never touches the grantor's own consent.
	if _, err := f.consent.Validate(ctx, grantorTokens[0], "vault.read.email"); err != nil {
		t.Fatalf("grantor consent affected by link revocation: %v", err)
	}
}

func TestDelegation_NotAcceptedAsConsentToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	grantorTokens := []string{f.issue(t, "u1", "mailer", "vault.read.email")}
	link, err := f.trust.IssueDelegation(ctx, "mailer", "scheduler", "u1",
		[]string{"vault.read.email"}, grantorTokens)
	if err != nil {
		t.Fatalf("IssueDelegation error: %v", err)
	}

	if _, err := f.consent.Validate(ctx, link, "vault.read.email"); !errors.Is(err, common.ErrMalformed) {
		t.Fatalf("trust link must not validate as a consent token, got %v", err)
	}
}
