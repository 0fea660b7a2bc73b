// Package config provides configuration loading, validation, and management
// for tickbot. It reads the optional YAML file, falls back to environment
// variables for the API credentials, sets default values, and validates
// the result.
package config

import (
	"errors"
	"time"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo
)

// ErrMissingCredentials is returned when a credential is absent from both the
// config file and the environment. The wrapped message names every missing
// environment variable.
var ErrMissingCredentials = errors.New("missing credentials")

// ErrConfiguration marks any other load or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration parameters for all components
// of tickbot: API credentials, logging, reply behavior and the Twitter client.
type Config struct {
	Credentials Credentials   `mapstructure:"-"`
	Logger      LoggerConfig  `mapstructure:"log"`
	Bot         BotConfig     `mapstructure:"bot"`
	Twitter     TwitterConfig `mapstructure:"twitter"`
}

// Credentials holds the four OAuth 1.0a secrets of the bot account.
// The env tag names the environment variable used as fallback and is the
// name reported when a value is missing.
type Credentials struct {
	ConsumerKey       string `env:"CONSUMER_KEY"        validate:"required"`
	ConsumerSecret    string `env:"CONSUMER_SECRET"     validate:"required"`
	AccessToken       string `env:"ACCESS_TOKEN"        validate:"required"`
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET" validate:"required"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// BotConfig controls mention processing and the idle status.
type BotConfig struct {
	Timezone string        `mapstructure:"timezone" validate:"required,timezone"`
	Interval time.Duration `mapstructure:"interval" validate:"min=1s,max=24h"`
	Rules    []RuleConfig  `mapstructure:"rules"    validate:"min=1,dive"`

	// MaxStatusLength is the platform limit; longer texts are logged, not cut.
	MaxStatusLength int `mapstructure:"max_status_length" validate:"gt=0"`

	DryRun bool `mapstructure:"dry_run"`

	// IdleOnFailedReplies posts the idle status when every reply attempt failed.
	IdleOnFailedReplies bool `mapstructure:"idle_on_failed_replies"`
}

// RuleConfig is one substring trigger and the greeting used in the reply.
type RuleConfig struct {
	Contains string `mapstructure:"contains" validate:"required"`
	Greeting string `mapstructure:"greeting" validate:"required"`
}

// TwitterConfig controls the API client.
type TwitterConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"min=1s,max=5m"`
	MentionsCount  int           `mapstructure:"mentions_count"  validate:"min=1,max=200"`
}
