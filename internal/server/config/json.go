package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tourgo/internal/flagx"
	"github.com/dmitrijs2005/tourgo/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Interval fields use
// timex.Duration so both "168h" and integer nanoseconds are accepted. Zero
// values leave the current setting untouched.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	DBMaxOpenConns        int            `json:"db_max_open_conns"`
	DBMaxIdleConns        int            `json:"db_max_idle_conns"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
	RSAKeyBits            int            `json:"rsa_key_bits"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	RedisAddr             string         `json:"redis_addr"`
	RateLimitPerMinute    int            `json:"rate_limit_per_minute"`
	AssistantBaseURL      string         `json:"assistant_base_url"`
	AssistantAPIKey       string         `json:"assistant_api_key"`
	AssistantChatModel    string         `json:"assistant_chat_model"`
	AssistantImageModel   string         `json:"assistant_image_model"`
	GenerationTimeout     timex.Duration `json:"generation_timeout"`
	TimeZone              string         `json:"time_zone"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays config with the file given by -c/-config in args.
// Without the flag nothing happens.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setInt(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	setInt(&config.DBMaxIdleConns, c.DBMaxIdleConns)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setInt(&config.BcryptCost, c.BcryptCost)
	setInt(&config.RSAKeyBits, c.RSAKeyBits)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.RedisAddr, c.RedisAddr)
	setInt(&config.RateLimitPerMinute, c.RateLimitPerMinute)
	setString(&config.AssistantBaseURL, c.AssistantBaseURL)
	setString(&config.AssistantAPIKey, c.AssistantAPIKey)
	setString(&config.AssistantChatModel, c.AssistantChatModel)
	setString(&config.AssistantImageModel, c.AssistantImageModel)
	if c.GenerationTimeout.Duration > 0 {
		config.GenerationTimeout = c.GenerationTimeout.Duration
	}
	setString(&config.TimeZone, c.TimeZone)
	setString(&config.LogLevel, c.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
