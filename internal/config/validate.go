package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.Source == "" {
		return errors.New("paths.source must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if filepath.Dir(c.Paths.OutputDir) == c.Paths.OutputDir {
		return fmt.Errorf("paths.output_dir %q must not be a filesystem root", c.Paths.OutputDir)
	}
	if filepath.Clean(c.Paths.Source) == filepath.Clean(c.Paths.OutputDir) {
		return errors.New("paths.output_dir must differ from paths.source")
	}
	if rel, err := filepath.Rel(c.Paths.OutputDir, c.Paths.Source); err == nil && filepath.IsLocal(rel) {
		return fmt.Errorf("paths.source %q must not live inside paths.output_dir; the output directory is cleared on every run", c.Paths.Source)
	}
	return nil
}

func (c *Config) validateSplit() error {
	if !c.Split.Unlimited && c.Split.Threads < 1 {
		return fmt.Errorf("split.threads must be at least 1 (got %d); set split.unlimited to process everything at once", c.Split.Threads)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
