// Package config holds the runtime configuration for image-pager.
//
// Configuration is defaults-first: Default() provides a complete working
// configuration, a YAML file overlays it, and IMAGE_PAGER_* environment
// variables overlay the file. Every load path ends in Validate().
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// ErrInvalidConfig is the base error for configuration validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all tunables of the paging core and its surfaces.
type Config struct {
	// PageUnitPixels is the number of pixels per page. The last page of an
	// image may cover fewer.
	PageUnitPixels int `yaml:"page_unit_pixels"`

	// BudgetUnits is the working-set ceiling in pages: each resident page
	// consumes exactly one unit.
	BudgetUnits int `yaml:"budget_units"`

	// FaultLatency is slept once per page fault to simulate page-in cost.
	// Zero disables the sleep.
	FaultLatency time.Duration `yaml:"fault_latency"`

	// HistoryDepth bounds the undo/redo parameter timeline. Pushing past
	// the bound drops the oldest entry.
	HistoryDepth int `yaml:"history_depth"`

	// LogLevel is a zerolog level name: trace, debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		PageUnitPixels: 16384, // 64 KiB pages at 4 bytes per pixel
		BudgetUnits:    8,
		FaultLatency:   0,
		HistoryDepth:   32,
		LogLevel:       "info",
	}
}

// Load reads a YAML file over the defaults, then applies environment
// overrides and validates. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays IMAGE_PAGER_* environment variables onto the config.
//
// Recognized variables: IMAGE_PAGER_PAGE_UNIT_PIXELS, IMAGE_PAGER_BUDGET_UNITS,
// IMAGE_PAGER_FAULT_LATENCY (a Go duration such as "5ms"),
// IMAGE_PAGER_HISTORY_DEPTH, IMAGE_PAGER_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("IMAGE_PAGER_PAGE_UNIT_PIXELS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: IMAGE_PAGER_PAGE_UNIT_PIXELS: %v", ErrInvalidConfig, err)
		}
		c.PageUnitPixels = n
	}
	if v := os.Getenv("IMAGE_PAGER_BUDGET_UNITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: IMAGE_PAGER_BUDGET_UNITS: %v", ErrInvalidConfig, err)
		}
		c.BudgetUnits = n
	}
	if v := os.Getenv("IMAGE_PAGER_FAULT_LATENCY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: IMAGE_PAGER_FAULT_LATENCY: %v", ErrInvalidConfig, err)
		}
		c.FaultLatency = d
	}
	if v := os.Getenv("IMAGE_PAGER_HISTORY_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: IMAGE_PAGER_HISTORY_DEPTH: %v", ErrInvalidConfig, err)
		}
		c.HistoryDepth = n
	}
	if v := os.Getenv("IMAGE_PAGER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks field domains.
func (c Config) Validate() error {
	if c.PageUnitPixels < 1 {
		return fmt.Errorf("%w: page_unit_pixels must be >= 1, got %d", ErrInvalidConfig, c.PageUnitPixels)
	}
	if c.BudgetUnits < 1 {
		return fmt.Errorf("%w: budget_units must be >= 1, got %d", ErrInvalidConfig, c.BudgetUnits)
	}
	if c.FaultLatency < 0 {
		return fmt.Errorf("%w: fault_latency must not be negative", ErrInvalidConfig)
	}
	if c.HistoryDepth < 1 {
		return fmt.Errorf("%w: history_depth must be >= 1, got %d", ErrInvalidConfig, c.HistoryDepth)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
