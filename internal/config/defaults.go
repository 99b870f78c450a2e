package config

const (
	defaultTempDir        = "~/.local/share/morph/tmp"
	defaultLogDir         = "~/.local/share/morph/logs"
	defaultHistoryPath    = "~/.local/share/morph/history.db"
	defaultMaxFileSizeMB  = 50
	defaultWorkers        = 4
	defaultFFmpegBinary   = "ffmpeg"
	defaultPandocBinary   = "pandoc"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultNtfyTimeout    = 10
	defaultHistoryEnabled = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir: defaultTempDir,
			LogDir:  defaultLogDir,
		},
		Limits: Limits{
			MaxFileSizeMB: defaultMaxFileSizeMB,
			Workers:       defaultWorkers,
		},
		Tools: Tools{
			FFmpeg: defaultFFmpegBinary,
			Pandoc: defaultPandocBinary,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
