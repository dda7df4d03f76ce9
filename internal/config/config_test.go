package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "data/entries.json", cfg.EntriesPath)
	assert.Empty(t, cfg.DatabaseDSN, "file store by default")
	assert.Equal(t, "data/master.db", cfg.MasterDataPath)
	assert.Equal(t, "data/accounts.json", cfg.AccountsPath)
	assert.Equal(t, 8*time.Hour, cfg.SessionValidityDuration)
	assert.Equal(t, "reports", cfg.S3Bucket)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("REGISTER_ENTRIES_PATH", "/tmp/entries.json")
	t.Setenv("REGISTER_DATABASE_DSN", "postgres://localhost/register")
	t.Setenv("REGISTER_SECRET_KEY", "env-secret")
	t.Setenv("REGISTER_SESSION_VALIDITY", "30m")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "/tmp/entries.json", cfg.EntriesPath)
	assert.Equal(t, "postgres://localhost/register", cfg.DatabaseDSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionValidityDuration)

	// untouched fields keep defaults
	assert.Equal(t, "data/master.db", cfg.MasterDataPath)
}

func TestParseEnv_InvalidDurationIgnored(t *testing.T) {
	t.Setenv("REGISTER_SESSION_VALIDITY", "not-a-duration")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 8*time.Hour, cfg.SessionValidityDuration)
}

func TestParseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{
		"testbin",
		"-f", "/srv/entries.json",
		"-d", "postgres://db/register",
		"-s", "flag-secret",
		"-t", "90",
		"-b", "daily-reports",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "/srv/entries.json", cfg.EntriesPath)
	assert.Equal(t, "postgres://db/register", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, 90*time.Minute, cfg.SessionValidityDuration)
	assert.Equal(t, "daily-reports", cfg.S3Bucket)

	// unset flags keep current values
	assert.Equal(t, "data/accounts.json", cfg.AccountsPath)
}
