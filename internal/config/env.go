package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first when present; missing files are
// not an error so containerized deployments can rely on the real
// environment alone.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.SigningSecret, "HEARTH_SIGNING_SECRET")
	setString(&config.VaultSalt, "HEARTH_VAULT_SALT")
	setString(&config.DatabaseDSN, "HEARTH_DATABASE_DSN")
	setString(&config.RedisAddr, "HEARTH_REDIS_ADDR")
	setString(&config.AMQPURI, "HEARTH_AMQP_URI")
	setString(&config.S3RootUser, "HEARTH_S3_ROOT_USER")
	setString(&config.S3RootPassword, "HEARTH_S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "HEARTH_S3_BUCKET")
	setString(&config.S3Region, "HEARTH_S3_REGION")
	setString(&config.S3BaseEndpoint, "HEARTH_S3_BASE_ENDPOINT")
	setDuration(&config.MaxConsentTTL, "HEARTH_MAX_CONSENT_TTL")
	setDuration(&config.TrustLinkTTL, "HEARTH_TRUST_LINK_TTL")
	setString(&config.RevocationBackend, "HEARTH_REVOCATION_BACKEND")
	setString(&config.VaultBackend, "HEARTH_VAULT_BACKEND")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
