package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLimits()
	c.normalizeTools()
	c.normalizeMatrix()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLimits() {
	if c.Limits.MaxFileSizeMB <= 0 {
		c.Limits.MaxFileSizeMB = defaultMaxFileSizeMB
	}
	if c.Limits.Workers <= 0 {
		c.Limits.Workers = defaultWorkers
	}
	if c.Limits.TimeoutSeconds < 0 {
		c.Limits.TimeoutSeconds = 0
	}
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.Pandoc) == "" {
		c.Tools.Pandoc = defaultPandocBinary
	}
}

func (c *Config) normalizeMatrix() {
	c.Matrix.Homeserver = strings.TrimSpace(c.Matrix.Homeserver)
	c.Matrix.UserID = strings.TrimSpace(c.Matrix.UserID)
	if c.Matrix.AccessToken == "" {
		if value, ok := os.LookupEnv("MORPH_MATRIX_TOKEN"); ok {
			c.Matrix.AccessToken = value
		}
	}
	rooms := c.Matrix.AllowedRooms[:0]
	for _, room := range c.Matrix.AllowedRooms {
		if trimmed := strings.TrimSpace(room); trimmed != "" {
			rooms = append(rooms, trimmed)
		}
	}
	c.Matrix.AllowedRooms = rooms
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("MORPH_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
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
