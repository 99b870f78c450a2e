package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateMatrix()
}

func (c *Config) validateLimits() error {
	if c.Limits.MaxFileSizeMB <= 0 {
		return errors.New("limits.max_file_size_mb must be positive")
	}
	if c.Limits.Workers <= 0 {
		return errors.New("limits.workers must be positive")
	}
	return nil
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		return errors.New("tools.ffmpeg must be set")
	}
	if strings.TrimSpace(c.Tools.Pandoc) == "" {
		return errors.New("tools.pandoc must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// validateMatrix only checks consistency; the transport is optional and the
// CLI runs without it. The daemon enforces presence at startup.
func (c *Config) validateMatrix() error {
	configured := c.Matrix.Homeserver != "" || c.Matrix.UserID != "" || c.Matrix.AccessToken != ""
	if !configured {
		return nil
	}
	if c.Matrix.Homeserver == "" {
		return errors.New("matrix.homeserver must be set when the matrix section is configured")
	}
	if c.Matrix.UserID == "" {
		return errors.New("matrix.user_id must be set when the matrix section is configured")
	}
	if c.Matrix.AccessToken == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/morph/config.toml"
		}
		return fmt.Errorf("matrix.access_token is required. Set MORPH_MATRIX_TOKEN or edit %s", defaultPath)
	}
	return nil
}
