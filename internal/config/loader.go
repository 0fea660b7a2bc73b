package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LookupEnvFunc resolves an environment variable, reporting whether it is set.
type LookupEnvFunc func(key string) (string, bool)

// Load loads and validates configuration from:
// 1. Default values
// 2. the YAML file at path (optional)
// 3. TICKBOT_* environment variables for non-secret settings
//
// Credentials are read from the file first and fall back to the environment
// variables CONSUMER_KEY, CONSUMER_SECRET, ACCESS_TOKEN and ACCESS_TOKEN_SECRET.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit credential environment lookup.
func LoadWithEnv(path string, lookupEnv LookupEnvFunc) (*Config, error) {
	file, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	creds := resolveCredentials(file, lookupEnv)
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("TICKBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.MergeConfigMap(file.AllSettings()); err != nil {
		return nil, fmt.Errorf("%w: failed to merge config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}
	cfg.Credentials = creds

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded",
		"path", path,
		"timezone", cfg.Bot.Timezone,
		"interval", cfg.Bot.Interval,
		"rules", len(cfg.Bot.Rules),
		"dry_run", cfg.Bot.DryRun)

	return cfg, nil
}

// Validate checks every setting against its validate tag.
func (c *Config) Validate() error {
	if err := validateCredentials(c.Credentials); err != nil {
		return err
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// readFile reads the YAML file into its own viper instance. A missing file
// yields an empty instance.
func readFile(path string) (*viper.Viper, error) {
	file := viper.New()
	if path == "" {
		return file, nil
	}

	file.SetConfigFile(path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			slog.Info("Cannot load config file, will use environment variables", "path", path)
			return viper.New(), nil
		}
		return nil, err
	}
	return file, nil
}

// resolveCredentials prefers non-empty file values and falls back to the
// environment variable of the same upper-case name.
func resolveCredentials(file *viper.Viper, lookupEnv LookupEnvFunc) Credentials {
	var creds Credentials
	fields := []struct {
		key string
		dst *string
	}{
		{"consumer_key", &creds.ConsumerKey},
		{"consumer_secret", &creds.ConsumerSecret},
		{"access_token", &creds.AccessToken},
		{"access_token_secret", &creds.AccessTokenSecret},
	}

	for _, f := range fields {
		if val := strings.TrimSpace(file.GetString(f.key)); val != "" {
			*f.dst = val
			continue
		}
		if val, ok := lookupEnv(strings.ToUpper(f.key)); ok {
			*f.dst = strings.TrimSpace(val)
		}
	}
	return creds
}

// validateCredentials reports every missing credential by its environment
// variable name.
func validateCredentials(creds Credentials) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("env")
	})

	err := validate.Struct(creds)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return fmt.Errorf("%w: %s not found in config file or environment variables",
		ErrMissingCredentials, strings.Join(missing, ", "))
}

// setDefaults sets default values for optional configuration parameters
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("bot.timezone", DefaultBotTimezone)
	v.SetDefault("bot.interval", DefaultBotInterval)
	v.SetDefault("bot.rules", DefaultRules)
	v.SetDefault("bot.max_status_length", DefaultBotMaxStatusLength)
	v.SetDefault("bot.dry_run", false)
	v.SetDefault("bot.idle_on_failed_replies", false)

	v.SetDefault("twitter.request_timeout", DefaultTwitterRequestTimeout)
	v.SetDefault("twitter.mentions_count", DefaultTwitterMentionsCount)
}
