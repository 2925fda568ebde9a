// Package config loads ambient, non-business settings for the engine
// process: log level/format and worker pool sizing. The spec's compile-time
// constants (PARSE_CHUNK, SEARCH_CHUNK, HEADER_SAMPLE, SCHEMA_SAMPLE,
// SCHEMA_MAX_DEPTH, SCHEMA_MAX_COLUMNS) are NOT configurable here — they are
// documented invariants of the pipeline, not deployment knobs.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores the engine's ambient runtime configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Workers WorkersConfig `mapstructure:"workers"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug|info|warn|error
	JSON  bool   `mapstructure:"json"`
}

// WorkersConfig controls bounded-concurrency pool sizing for search and
// sort-file key extraction.
type WorkersConfig struct {
	SearchWorkers int `mapstructure:"searchWorkers"`
	SortWorkers   int `mapstructure:"sortWorkers"`
}

// Load reads configuration from configPath if non-empty, else from the
// conventional search paths, falling back to defaults when no file is
// found. Environment variables of the form JSONLVIEWER_LOG_LEVEL override
// file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/jsonlviewer")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("workers.searchWorkers", 8)
	v.SetDefault("workers.sortWorkers", 8)

	v.SetEnvPrefix("jsonlviewer")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Workers.SearchWorkers <= 0 {
		cfg.Workers.SearchWorkers = 8
	}
	if cfg.Workers.SortWorkers <= 0 {
		cfg.Workers.SortWorkers = 8
	}

	return &cfg, nil
}
