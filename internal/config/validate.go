package config

import (
	"errors"
	"fmt"
	"slices"
)

var (
	validModes      = []string{"move", "copy", "dryrun"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if !slices.Contains(validModes, c.Mode) {
		return fmt.Errorf("mode must be one of move, copy or dryrun, got %q", c.Mode)
	}
	if c.Src == "" {
		return errors.New("src must be set")
	}
	if c.Dest == "" {
		return errors.New("dest must be set")
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validatePlausibility()
}

func (c *Config) validateLogging() error {
	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of debug, info, warn or error, got %q", c.Log.Level)
	}
	if !slices.Contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

func (c *Config) validatePlausibility() error {
	p := c.Plausibility
	if p.MinYear < 0 || p.MaxYear < 0 {
		return errors.New("plausibility years must not be negative")
	}
	if p.MaxYear != 0 && p.MinYear > p.MaxYear {
		return fmt.Errorf("plausibility.min_year (%d) must not exceed plausibility.max_year (%d)", p.MinYear, p.MaxYear)
	}
	return nil
}
