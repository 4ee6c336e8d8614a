package config

import (
	"strings"
	"time"

	"github.com/rowjay/spoome-go/internal/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	BaseURL      string
	APIKey       string
	APIKeyHeader string
	Timeout      time.Duration
	Environment  string
	LogLevel     string
}

// Load reads spoome.yaml from the working directory or ~/.config/spoome,
// then SPOOME_* environment variables, then any flags bound from fs.
// A missing config file is not an error.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("spoome")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/spoome")
	v.SetEnvPrefix("spoome")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", constants.DefaultBaseURL)
	v.SetDefault("api_key_header", constants.DefaultAPIKeyHeader)
	v.SetDefault("timeout", constants.RequestTimeout)
	v.SetDefault("app_env", "production")
	v.SetDefault("log_level", "info")

	if fs != nil {
		for flagName, key := range map[string]string{
			"base-url":       "base_url",
			"api-key":        "api_key",
			"api-key-header": "api_key_header",
			"timeout":        "timeout",
			"log-level":      "log_level",
		} {
			if f := fs.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		BaseURL:      v.GetString("base_url"),
		APIKey:       v.GetString("api_key"),
		APIKeyHeader: v.GetString("api_key_header"),
		Timeout:      v.GetDuration("timeout"),
		Environment:  v.GetString("app_env"),
		LogLevel:     v.GetString("log_level"),
	}, nil
}

func (c *Config) Development() bool {
	return c.Environment == "development"
}
