package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables, first loading
// an optional .env file from the working directory. A missing .env file is
// not an error.
//
// Recognized variables:
//
//	REGISTER_ENTRIES_PATH, REGISTER_DATABASE_DSN, REGISTER_MASTER_DATA_PATH,
//	REGISTER_ACCOUNTS_PATH, REGISTER_SECRET_KEY, REGISTER_SESSION_VALIDITY,
//	REGISTER_S3_ROOT_USER, REGISTER_S3_ROOT_PASSWORD, REGISTER_S3_BUCKET,
//	REGISTER_S3_REGION, REGISTER_S3_BASE_ENDPOINT
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent := func(key string, target *string) {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}

	setIfPresent("REGISTER_ENTRIES_PATH", &config.EntriesPath)
	setIfPresent("REGISTER_DATABASE_DSN", &config.DatabaseDSN)
	setIfPresent("REGISTER_MASTER_DATA_PATH", &config.MasterDataPath)
	setIfPresent("REGISTER_ACCOUNTS_PATH", &config.AccountsPath)
	setIfPresent("REGISTER_SECRET_KEY", &config.SecretKey)
	setIfPresent("REGISTER_S3_ROOT_USER", &config.S3RootUser)
	setIfPresent("REGISTER_S3_ROOT_PASSWORD", &config.S3RootPassword)
	setIfPresent("REGISTER_S3_BUCKET", &config.S3Bucket)
	setIfPresent("REGISTER_S3_REGION", &config.S3Region)
	setIfPresent("REGISTER_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("REGISTER_SESSION_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionValidityDuration = d
		}
	}
}
