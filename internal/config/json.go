package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/hearthlabs/hearthcore/internal/flagx"
	"github.com/hearthlabs/hearthcore/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "5m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	SigningSecret     string         `json:"signing_secret"`
	VaultSalt         string         `json:"vault_salt"`
	DatabaseDSN       string         `json:"database_dsn"`
	RedisAddr         string         `json:"redis_addr"`
	AMQPURI           string         `json:"amqp_uri"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	MaxConsentTTL     timex.Duration `json:"max_consent_ttl"`
	TrustLinkTTL      timex.Duration `json:"trust_link_ttl"`
	RevocationBackend string         `json:"revocation_backend"`
	VaultBackend      string         `json:"vault_backend"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path is taken from the -c or -config command-line flags.
// If neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.SigningSecret = c.SigningSecret
	config.VaultSalt = c.VaultSalt
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.AMQPURI = c.AMQPURI
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.MaxConsentTTL = time.Duration(c.MaxConsentTTL.Duration)
	config.TrustLinkTTL = time.Duration(c.TrustLinkTTL.Duration)
	config.RevocationBackend = c.RevocationBackend
	config.VaultBackend = c.VaultBackend
}
