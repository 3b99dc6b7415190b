package config

import (
	"errors"
	"fmt"
)

var validTargetFormats = map[string]bool{
	"cdj-hardware":      true,
	"interchange-xml":   true,
	"m3u":               true,
	"database-software": true,
}

var validKeyNotations = map[string]bool{
	"open-key":       true,
	"classical":      true,
	"flat-classical": true,
	"pioneer":        true,
}

var validTiers = map[string]bool{
	"tier-a": true,
	"tier-b": true,
	"tier-c": true,
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Export.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("export: %w", err))
	}
	if err := c.Progress.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("progress: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks ExportConfig for errors.
func (c *ExportConfig) Validate() error {
	if c.Tier != "" && !validTiers[c.Tier] {
		return fmt.Errorf("invalid tier: %s (must be tier-a, tier-b, or tier-c)", c.Tier)
	}
	if c.TargetFormat != "" && !validTargetFormats[c.TargetFormat] {
		return fmt.Errorf("invalid target_format: %s", c.TargetFormat)
	}
	if c.KeyNotation != "" && !validKeyNotations[c.KeyNotation] {
		return fmt.Errorf("invalid key_notation: %s", c.KeyNotation)
	}
	return nil
}

// Validate checks ProgressConfig for errors.
func (c *ProgressConfig) Validate() error {
	if c.ChannelSize < 0 {
		return errors.New("channel_size must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
