// Package config handles configuration for the register console, including
// defaults, .env/environment overlay, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the register console.
//
// Fields:
//   - EntriesPath: JSON entry-list file (used when DatabaseDSN is empty).
//   - DatabaseDSN: PostgreSQL DSN (pgx); selects the Postgres entry store.
//   - MasterDataPath: sqlite file with the client/bike/category master data.
//   - AccountsPath: JSON operator accounts file.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use
//     the test default in production.
//   - SessionValidityDuration: session token lifetime.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: report bucket settings.
type Config struct {
	EntriesPath             string
	DatabaseDSN             string
	MasterDataPath          string
	AccountsPath            string
	SecretKey               string
	SessionValidityDuration time.Duration
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EntriesPath = "data/entries.json"
	c.DatabaseDSN = ""
	c.MasterDataPath = "data/master.db"
	c.AccountsPath = "data/accounts.json"
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 8 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "reports"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (including an optional .env file), an optional JSON
// file, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
