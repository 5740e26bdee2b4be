package config

import (
	"errors"
	"fmt"
)

var knownStrategies = map[string]struct{}{
	"copy":    {},
	"rsync":   {},
	"symlink": {},
	"move":    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateReorganize(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateReorganize() error {
	if c.Reorganize.Workers < 1 {
		return fmt.Errorf("reorganize.workers must be positive, got %d", c.Reorganize.Workers)
	}
	if _, ok := knownStrategies[c.Reorganize.Strategy]; !ok {
		return fmt.Errorf("reorganize.strategy must be one of copy, rsync, symlink, move; got %q", c.Reorganize.Strategy)
	}
	if c.Reorganize.Strategy == "rsync" && c.Rsync.Binary == "" {
		return errors.New("rsync.binary must be set when reorganize.strategy is rsync")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error; got %q", c.Logging.Level)
	}
	return nil
}
