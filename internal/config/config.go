// Package config loads the bot configuration from the environment, an
// optional .env file and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// TokenPlaceholder is the value shipped in example env files.
const TokenPlaceholder = "TELEGRAM_BOT_TOKEN_HERE"

// ErrConfiguration marks every configuration failure; it is fatal at startup.
var ErrConfiguration = errors.New("configuration error")

// Config holds the application configuration.
type Config struct {
	BotToken         string        `mapstructure:"telegram_bot_token" validate:"required"`
	MediaArchiveDir  string        `mapstructure:"media_archive_dir"  validate:"required"`
	LogDir           string        `mapstructure:"log_dir"            validate:"required"`
	AppEnv           string        `mapstructure:"app_env"`
	Version          string        `mapstructure:"version"`
	Debug            bool          `mapstructure:"debug"`
	LogLevel         string        `mapstructure:"log_level"          validate:"oneof=trace debug info warn error"`
	LogFormat        string        `mapstructure:"log_format"         validate:"oneof=console json"`
	DefaultLanguage  string        `mapstructure:"default_language"   validate:"required"`
	SentryDSN        string        `mapstructure:"sentry_dsn"`
	MongoDBURI       string        `mapstructure:"mongodb_uri"        validate:"omitempty,uri"`
	MongoDBDatabase  string        `mapstructure:"mongodb_database"   validate:"required_with=MongoDBURI"`
	UpdatesPerSecond int           `mapstructure:"updates_per_second" validate:"min=1,max=1000"`
	UpdateTimeout    time.Duration `mapstructure:"update_timeout"     validate:"min=1s,max=1h"`
}

var defaults = map[string]interface{}{
	"telegram_bot_token": "",
	"media_archive_dir":  "media_archive",
	"log_dir":            ".",
	"app_env":            "development",
	"version":            "dev",
	"debug":              false,
	"log_level":          "info",
	"log_format":         "console",
	"default_language":   "en",
	"sentry_dsn":         "",
	"mongodb_uri":        "",
	"mongodb_database":   "chatarchive",
	"updates_per_second": 20,
	"update_timeout":     "2m",
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}
	return Load(afero.NewOsFs())
}

// Load reads defaults, then config.yaml from the working directory of fs if
// it exists, then the process environment, and validates the result.
func Load(fs afero.Fs) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if cfg.SentryDSN == "" {
		log.Warn().Msg("SENTRY_DSN is not set. Error tracking disabled.")
	}
	if cfg.MongoDBURI == "" {
		log.Info().Msg("MONGODB_URI is not set. Activity journal disabled.")
	}
	return cfg, nil
}

// Validate checks the loaded values. The token is checked explicitly so that
// the error names the variable to set.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.BotToken == TokenPlaceholder {
		return errors.New("TELEGRAM_BOT_TOKEN still holds the placeholder value")
	}
	return validator.New().Struct(c)
}

// JournalEnabled reports whether the MongoDB activity journal is configured.
func (c *Config) JournalEnabled() bool {
	return c.MongoDBURI != ""
}
