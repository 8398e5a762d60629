// Package cli implements the hearthctl operator commands over a wired
// application instance.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hearthlabs/hearthcore/internal/app"
	"github.com/hearthlabs/hearthcore/internal/scope"
)

const usage = `Usage: hearthctl <command> [flags]

Commands:
  issue        issue a consent token
  validate     validate a consent token against a scope
  revoke       revoke a consent token
  delegate     issue a trust link covered by consent tokens
  verify       verify a trust link against a scope
  revoke-link  revoke a trust link
  vault        vault record operations (put, get, del, list)
  scopes       list registered scopes
`

type App struct {
	core *app.App
	out  io.Writer
}

func NewApp(core *app.App, out io.Writer) *App {
	return &App{core: core, out: out}
}

// Run dispatches a single command. args excludes the binary name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "issue":
		return a.runIssue(ctx, args[1:])
	case "validate":
		return a.runValidate(ctx, args[1:])
	case "revoke":
		return a.runRevoke(ctx, args[1:])
	case "delegate":
		return a.runDelegate(ctx, args[1:])
	case "verify":
		return a.runVerify(ctx, args[1:])
	case "revoke-link":
		return a.runRevokeLink(ctx, args[1:])
	case "vault":
		return a.runVault(ctx, args[1:])
	case "scopes":
		for _, s := range scope.All() {
			fmt.Fprintln(a.out, s)
		}
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (a *App) runIssue(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	user := fs.String("user", "", "user ID")
	agent := fs.String("agent", "", "agent ID")
	sc := fs.String("scope", "", "scope name")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tok, err := a.core.Consent.Issue(ctx, *user, *agent, *sc, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, tok)
	return nil
}

func (a *App) runValidate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	tok := fs.String("token", "", "consent token")
	sc := fs.String("scope", "", "expected scope")
	if err := fs.Parse(args); err != nil {
		return err
	}

	claims, err := a.core.Consent.Validate(ctx, *tok, *sc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "valid: user=%s agent=%s scope=%s expires=%s\n",
		claims.UserID, claims.AgentID, claims.Scope,
		time.UnixMilli(claims.ExpiresAtMS).UTC().Format(time.RFC3339))
	return nil
}

func (a *App) runRevoke(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("revoke", flag.ContinueOnError)
	tok := fs.String("token", "", "consent token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.core.Consent.Revoke(ctx, *tok); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "revoked")
	return nil
}

func (a *App) runDelegate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delegate", flag.ContinueOnError)
	grantor := fs.String("grantor", "", "delegating agent ID")
	grantee := fs.String("grantee", "", "receiving agent ID")
	user := fs.String("user", "", "user ID the consent belongs to")
	scopes := fs.String("scopes", "", "comma-separated scopes to delegate")
	tokens := fs.String("tokens", "", "comma-separated consent tokens covering the scopes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	link, err := a.core.Trust.IssueDelegation(ctx, *grantor, *grantee, *user,
		splitList(*scopes), splitList(*tokens))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, link)
	return nil
}

func (a *App) runVerify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	link := fs.String("link", "", "trust link")
	sc := fs.String("scope", "", "required scope")
	if err := fs.Parse(args); err != nil {
		return err
	}

	claims, err := a.core.Trust.VerifyDelegation(ctx, *link, *sc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "valid: grantor=%s grantee=%s user=%s scopes=%s\n",
		claims.GrantorID, claims.GranteeID, claims.UserID, strings.Join(claims.Scopes, ","))
	return nil
}

func (a *App) runRevokeLink(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("revoke-link", flag.ContinueOnError)
	link := fs.String("link", "", "trust link")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.core.Trust.RevokeDelegation(ctx, *link); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "revoked")
	return nil
}

func (a *App) runVault(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: vault <put|get|del|list> [flags]")
	}

	fs := flag.NewFlagSet("vault "+args[0], flag.ContinueOnError)
	user := fs.String("user", "", "user ID")
	collection := fs.String("collection", "", "collection name")
	record := fs.String("record", "", "record ID")
	data := fs.String("data", "", "record payload (put only)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch args[0] {
	case "put":
		if err := a.core.Vault.Put(ctx, *user, *collection, *record, []byte(*data)); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "stored")
		return nil
	case "get":
		plaintext, err := a.core.Vault.Get(ctx, *user, *collection, *record)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(plaintext))
		return nil
	case "del":
		if err := a.core.Vault.Delete(ctx, *user, *collection, *record); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "deleted")
		return nil
	case "list":
		ids, err := a.core.Vault.List(ctx, *user, *collection)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(a.out, id)
		}
		return nil
	default:
		return fmt.Errorf("unknown vault command: %s", args[0])
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
