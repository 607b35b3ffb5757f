// Package config loads the application configuration through viper.
// Values come from config.yaml, environment variables, and CLI flag
// bindings, in the usual viper precedence order.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Data  DataConfig  `mapstructure:"data" yaml:"data"`
	Store StoreConfig `mapstructure:"store" yaml:"store"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
}

// DataConfig locates the record source.
type DataConfig struct {
	SightingsPath string `mapstructure:"sightings_path" yaml:"sightings_path"`
}

// StoreConfig selects the persistence backend for views and datasets.
type StoreConfig struct {
	// Driver is one of "sqlite", "postgres", or "file".
	Driver string `mapstructure:"driver" yaml:"driver"`
	// DSN is a file path for sqlite, a connection string for postgres,
	// or a directory for the file backend.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File enables rotated file logging when non-empty.
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

func setDefaults() {
	viper.SetDefault("data.sightings_path", "sightings.csv")
	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.dsn", "storage")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.max_size", 10)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
}

// Init wires viper to the config file and environment. Pass an empty
// path to use ./config.yaml when present.
func Init(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("vogelring")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine; defaults and env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// Load unmarshals the effective configuration.
func Load() (*Config, error) {
	setDefaults()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}
	return cfg, nil
}
