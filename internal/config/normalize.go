package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeReorganize()
	c.normalizeRsync()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeReorganize() {
	c.Reorganize.Strategy = strings.ToLower(strings.TrimSpace(c.Reorganize.Strategy))
	if c.Reorganize.Strategy == "" {
		c.Reorganize.Strategy = defaultStrategy
	}
	if c.Reorganize.Workers == 0 {
		c.Reorganize.Workers = defaultWorkers
	}
}

func (c *Config) normalizeRsync() {
	c.Rsync.Binary = strings.TrimSpace(c.Rsync.Binary)
	if c.Rsync.Binary == "" {
		c.Rsync.Binary = defaultRsyncBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
