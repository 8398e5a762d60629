// Package app wires the consent core together from configuration:
// storage backends, audit publishing, and the consent, trust, and vault
// services.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/hearthlabs/hearthcore/internal/audit"
	"github.com/hearthlabs/hearthcore/internal/config"
	"github.com/hearthlabs/hearthcore/internal/consent"
	"github.com/hearthlabs/hearthcore/internal/logging"
	"github.com/hearthlabs/hearthcore/internal/revocation"
	"github.com/hearthlabs/hearthcore/internal/trust"
	"github.com/hearthlabs/hearthcore/internal/vault"
)

// App holds the wired services. Callers embed it behind whatever surface
// they expose (CLI, RPC, tests).
type App struct {
	config  *config.Config
	logger  logging.Logger
	Consent *consent.Service
	Trust   *trust.Service
	Vault   *vault.Service

	closers []func() error
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	app := &App{config: cfg, logger: logger}

	revocations, err := app.initRevocationStore()
	if err != nil {
		return nil, fmt.Errorf("revocation init error: %w", err)
	}

	vaultRepo, err := app.initVaultRepository()
	if err != nil {
		return nil, fmt.Errorf("vault init error: %w", err)
	}

	auditPub, err := app.initAuditPublisher()
	if err != nil {
		return nil, fmt.Errorf("audit init error: %w", err)
	}

	app.Consent = consent.NewService([]byte(cfg.SigningSecret), revocations, auditPub, logger, cfg.MaxConsentTTL)
	app.Trust = trust.NewService(app.Consent, revocations, auditPub, logger, cfg.TrustLinkTTL)
	app.Vault = vault.NewService(vaultRepo, []byte(cfg.VaultSalt), logger)

	return app, nil
}

func (app *App) Logger() logging.Logger {
	return app.logger
}

// Close releases broker and database connections in reverse order of
// acquisition.
func (app *App) Close() error {
	var firstErr error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (app *App) initRevocationStore() (revocation.Store, error) {
	switch app.config.RevocationBackend {
	case config.BackendMemory:
		return revocation.NewMemoryStore(time.Now), nil
	case config.BackendPostgres:
		pm, err := NewPostgresManager(app.config.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pm.Close)
		return revocation.NewPostgresStore(pm.Conn()), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
		app.closers = append(app.closers, client.Close)
		return revocation.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown revocation backend: %q", app.config.RevocationBackend)
	}
}

func (app *App) initVaultRepository() (vault.Repository, error) {
	switch app.config.VaultBackend {
	case config.BackendMemory:
		return vault.NewMemoryRepository(), nil
	case config.BackendPostgres:
		pm, err := NewPostgresManager(app.config.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pm.Close)
		return vault.NewPostgresRepository(pm.Conn()), nil
	case config.BackendS3:
		client, err := app.newS3Client()
		if err != nil {
			return nil, err
		}
		return vault.NewS3Repository(client, app.config.S3Bucket), nil
	default:
		return nil, fmt.Errorf("unknown vault backend: %q", app.config.VaultBackend)
	}
}

func (app *App) newS3Client() (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(app.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			app.config.S3RootUser,
			app.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(app.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func (app *App) initAuditPublisher() (audit.Publisher, error) {
	if app.config.AMQPURI == "" {
		return audit.NewLogPublisher(app.logger), nil
	}

	pub, err := audit.NewAMQPPublisher(app.config.AMQPURI)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, pub.Close)
	return pub, nil
}
