package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hearthlabs/hearthcore/internal/app"
	"github.com/hearthlabs/hearthcore/internal/config"
	"github.com/hearthlabs/hearthcore/internal/scope"
	"github.com/hearthlabs/hearthcore/internal/token"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SigningSecret = "cli-test-secret"
	cfg.VaultSalt = "cli-test-salt"

	core, err := app.NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	var buf bytes.Buffer
	return NewApp(core, &buf), &buf
}

func TestRun_NoCommand(t *testing.T) {
	a, buf := newTestApp(t)
	err := a.Run(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, buf.String(), "Usage: hearthctl")
}

func TestRun_UnknownCommand(t *testing.T) {
	a, _ := newTestApp(t)
	err := a.Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
}

func TestIssueValidateRevoke(t *testing.T) {
	a, buf := newTestApp(t)
	ctx := context.Background()

	sc := scope.Read(scope.CollectionEmail)
	err := a.Run(ctx, []string{"issue", "-user", "u1", "-agent", "mailbot", "-scope", sc, "-ttl", "1h"})
	require.NoError(t, err)

	tok := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(tok, token.ConsentPrefix))
	buf.Reset()

	err = a.Run(ctx, []string{"validate", "-token", tok, "-scope", sc})
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "user=u1")
	require.Contains(t, out, "agent=mailbot")
	require.NotContains(t, out, tok, "output must not echo the token")
	buf.Reset()

	err = a.Run(ctx, []string{"revoke", "-token", tok})
	require.NoError(t, err)

	err = a.Run(ctx, []string{"validate", "-token", tok, "-scope", sc})
	require.Error(t, err)
}

func TestDelegateVerify(t *testing.T) {
	a, buf := newTestApp(t)
	ctx := context.Background()

	sc := scope.Read(scope.CollectionCalendar)
	require.NoError(t, a.Run(ctx, []string{"issue", "-user", "u1", "-agent", "planner", "-scope", sc, "-ttl", "1h"}))
	tok := strings.TrimSpace(buf.String())
	buf.Reset()

	err := a.Run(ctx, []string{"delegate",
		"-grantor", "planner", "-grantee", "extractor", "-user", "u1",
		"-scopes", sc, "-tokens", tok})
	require.NoError(t, err)
	link := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(link, token.TrustLinkPrefix))
	buf.Reset()

	require.NoError(t, a.Run(ctx, []string{"verify", "-link", link, "-scope", sc}))
	require.Contains(t, buf.String(), "grantee=extractor")
	buf.Reset()

	require.NoError(t, a.Run(ctx, []string{"revoke-link", "-link", link}))
	require.Error(t, a.Run(ctx, []string{"verify", "-link", link, "-scope", sc}))
}

func TestVaultCommands(t *testing.T) {
	a, buf := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Run(ctx, []string{"vault", "put",
		"-user", "u1", "-collection", "memory", "-record", "note1", "-data", "remember the milk"}))
	buf.Reset()

	require.NoError(t, a.Run(ctx, []string{"vault", "get",
		"-user", "u1", "-collection", "memory", "-record", "note1"}))
	require.Equal(t, "remember the milk", strings.TrimSpace(buf.String()))
	buf.Reset()

	require.NoError(t, a.Run(ctx, []string{"vault", "list", "-user", "u1", "-collection", "memory"}))
	require.Contains(t, buf.String(), "note1")
	buf.Reset()

	require.NoError(t, a.Run(ctx, []string{"vault", "del",
		"-user", "u1", "-collection", "memory", "-record", "note1"}))
	require.Error(t, a.Run(ctx, []string{"vault", "get",
		"-user", "u1", "-collection", "memory", "-record", "note1"}))
}

func TestScopes(t *testing.T) {
	a, buf := newTestApp(t)
	require.NoError(t, a.Run(context.Background(), []string{"scopes"}))
	require.Contains(t, buf.String(), scope.Read(scope.CollectionEmail))
	require.Contains(t, buf.String(), scope.AgentEmailCompose)
}

func TestIssue_TTLFlagDefault(t *testing.T) {
	a, buf := newTestApp(t)
	ctx := context.Background()

	// default ttl of one hour is within the configured maximum
	require.NoError(t, a.Run(ctx, []string{"issue", "-user", "u1", "-agent", "bot", "-scope", scope.AgentMemoryChat}))
	require.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), token.ConsentPrefix))
}
