// Package config loads settings for the command-line tools from an optional
// config file and ECDSA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings shared by all commands.  Flags given on the
// command line override these values.
type Config struct {
	Digest     string `mapstructure:"digest"`
	Workers    int    `mapstructure:"workers"`
	MaxRetries int    `mapstructure:"max_retries"`
	Format     string `mapstructure:"format"`
	Log        Log    `mapstructure:"log"`
}

// Log holds logging settings.
type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Digest:     "sha256",
		Workers:    0,
		MaxRetries: 1000,
		Format:     "json",
		Log:        Log{Level: "info"},
	}
}

// Load reads configuration.  When path is empty, ecdsa.yaml is looked up in
// the working directory and a missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("ECDSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ecdsa")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if c.Workers < 0 {
		return Config{}, fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("digest", d.Digest)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("max_retries", d.MaxRetries)
	v.SetDefault("format", d.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
}
