// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package config loads hashing defaults from the environment and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/mdhender/pwhash"
	"github.com/spf13/viper"
)

// Config holds the hashing defaults used by the command line tool.
type Config struct {
	// Cost is the bcrypt cost for new hashes (4–31). Out-of-range values fall back to 9.
	Cost int `mapstructure:"PWHASH_COST"`
	// Algorithm is the algorithm name for new hashes ("default" or "bcrypt").
	Algorithm string `mapstructure:"PWHASH_ALGORITHM"`
	// TimeTarget is the calibration target (e.g. "200ms").
	TimeTarget string `mapstructure:"PWHASH_TIME_TARGET"`
	// MaxCost is the highest cost calibration will probe. Clamped to 4–31.
	MaxCost int `mapstructure:"PWHASH_MAX_COST"`
}

// Load reads envFile (if present), then builds Config from the environment via Viper.
// A missing file is ignored; an unreadable or malformed one is an error.
// Env vars override the file. Returns an error if the algorithm or time target can't be parsed.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %s: %w", envFile, err)
			}
		}
	}

	v.AutomaticEnv()

	v.SetDefault("PWHASH_COST", pwhash.DefaultCost)
	v.SetDefault("PWHASH_ALGORITHM", pwhash.AlgorithmDefault.String())
	v.SetDefault("PWHASH_TIME_TARGET", pwhash.DefaultTimeTarget.String())
	v.SetDefault("PWHASH_MAX_COST", pwhash.MaxCost)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Cost < pwhash.MinCost || cfg.Cost > pwhash.MaxCost {
		cfg.Cost = pwhash.DefaultCost
	}
	cfg.MaxCost = max(pwhash.MinCost, min(cfg.MaxCost, pwhash.MaxCost))
	if _, err := pwhash.ParseAlgorithm(cfg.Algorithm); err != nil {
		return nil, fmt.Errorf("config: PWHASH_ALGORITHM: %w", err)
	}
	if d, err := time.ParseDuration(cfg.TimeTarget); err != nil {
		return nil, fmt.Errorf("config: PWHASH_TIME_TARGET: %w", err)
	} else if d <= 0 {
		return nil, fmt.Errorf("config: PWHASH_TIME_TARGET must be positive")
	}

	return &cfg, nil
}

// AlgorithmValue returns the parsed Algorithm. Load has already validated it.
func (c *Config) AlgorithmValue() pwhash.Algorithm {
	a, _ := pwhash.ParseAlgorithm(c.Algorithm)
	return a
}

// TimeTargetValue parses TimeTarget. Returns the default if unset or invalid.
func (c *Config) TimeTargetValue() time.Duration {
	d, err := time.ParseDuration(c.TimeTarget)
	if err != nil || d <= 0 {
		return pwhash.DefaultTimeTarget
	}
	return d
}

// Options returns the hasher options matching the configuration.
func (c *Config) Options() []pwhash.Option {
	return []pwhash.Option{
		pwhash.WithAlgorithm(c.AlgorithmValue()),
		pwhash.WithCost(c.Cost),
		pwhash.WithTimeTarget(c.TimeTargetValue()),
		pwhash.WithMaxCost(c.MaxCost),
	}
}
