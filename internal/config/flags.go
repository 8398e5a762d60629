package config

import (
	"flag"
	"os"
	"time"

	"github.com/hearthlabs/hearthcore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   HMAC secret for signing consent tokens
//	-l string   vault key derivation salt
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-q string   RabbitMQ URI for audit events
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-t int      maximum consent token lifetime, minutes
//	-k int      trust link lifetime, minutes
//	-v string   revocation backend (memory, postgres, redis)
//	-w string   vault backend (memory, postgres, s3)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-l", "-d", "-r", "-q", "-u", "-p", "-b", "-g", "-e", "-t", "-k", "-v", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.SigningSecret, "s", config.SigningSecret, "token signing secret")
	fs.StringVar(&config.VaultSalt, "l", config.VaultSalt, "vault key derivation salt")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.AMQPURI, "q", config.AMQPURI, "rabbitmq URI for audit events")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	maxConsentTTL := fs.Int("t", int(config.MaxConsentTTL.Minutes()), "max_consent_ttl (in minutes)")
	trustLinkTTL := fs.Int("k", int(config.TrustLinkTTL.Minutes()), "trust_link_ttl (in minutes)")

	fs.StringVar(&config.RevocationBackend, "v", config.RevocationBackend, "revocation backend (memory, postgres, redis)")
	fs.StringVar(&config.VaultBackend, "w", config.VaultBackend, "vault backend (memory, postgres, s3)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MaxConsentTTL = time.Duration(*maxConsentTTL) * time.Minute
	config.TrustLinkTTL = time.Duration(*trustLinkTTL) * time.Minute
}
