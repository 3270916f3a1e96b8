// Package config loads diagtest settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by all diagtest commands.
type Config struct {
	OutputDir string  `env:"OUTPUT_DIR" envDefault:"data/out"`
	DPI       int     `env:"DPI" envDefault:"300"`
	WidthIn   float64 `env:"WIDTH_IN" envDefault:"6.4"`
	HeightIn  float64 `env:"HEIGHT_IN" envDefault:"4.8"`
	LogLevel  string  `env:"LOG_LEVEL" envDefault:"info"`
	NumPoints int     `env:"NUM_POINTS" envDefault:"1000"`
}

const prefix = "DIAGTEST_"

// Load reads the optional dotenv files, then DIAGTEST_* variables.
// Variables already set in the environment win over dotenv values.
func Load(dotenv ...string) (*Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: prefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("%sDPI must be positive, got %d", prefix, c.DPI)
	}
	if c.WidthIn <= 0 || c.HeightIn <= 0 {
		return fmt.Errorf("%sWIDTH_IN and %sHEIGHT_IN must be positive", prefix, prefix)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%sLOG_LEVEL: %w", prefix, err)
	}
	return level, nil
}
