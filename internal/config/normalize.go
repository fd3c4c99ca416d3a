package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/quidome/mediasort/pkg/pathfilter"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = defaultMode
	}
	c.IgnorePatterns = cloneDefaultsIfEmpty(c.IgnorePatterns)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Src) == "" {
		c.Src = defaultSrc
	}
	if c.Src, err = expandPath(strings.TrimSpace(c.Src)); err != nil {
		return fmt.Errorf("src: %w", err)
	}
	if strings.TrimSpace(c.Dest) == "" {
		c.Dest = defaultDest
	}
	if c.Dest, err = expandPath(strings.TrimSpace(c.Dest)); err != nil {
		return fmt.Errorf("dest: %w", err)
	}
	if c.Log.File, err = expandPath(strings.TrimSpace(c.Log.File)); err != nil {
		return fmt.Errorf("log.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

func cloneDefaultsIfEmpty(patterns []string) []string {
	if len(patterns) == 0 {
		return pathfilter.DefaultPatterns()
	}
	return slices.Clone(patterns)
}
