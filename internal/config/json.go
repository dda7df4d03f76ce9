package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rlourenco/bicicletario/internal/flagx"
	"github.com/rlourenco/bicicletario/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON
// configuration files. timex.Duration accepts both string values such as
// "8h" and integer nanoseconds. After unmarshalling, its fields are copied
// into the runtime Config.
type JsonConfig struct {
	EntriesPath             string         `json:"entries_path"`
	DatabaseDSN             string         `json:"database_dsn"`
	MasterDataPath          string         `json:"master_data_path"`
	AccountsPath            string         `json:"accounts_path"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. An unreadable or
// invalid file panics: a config file that exists but cannot be applied is a
// deployment error, not a condition to run through.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

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

	config.EntriesPath = c.EntriesPath
	config.DatabaseDSN = c.DatabaseDSN
	config.MasterDataPath = c.MasterDataPath
	config.AccountsPath = c.AccountsPath
	config.SecretKey = c.SecretKey
	config.SessionValidityDuration = time.Duration(c.SessionValidityDuration.Duration)
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
