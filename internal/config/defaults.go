package config

const (
	defaultLogDir      = "~/.local/share/curator/logs"
	defaultHistoryPath = "~/.local/share/curator/history.db"
	defaultWorkers     = 16
	defaultStrategy    = "copy"
	defaultRsyncBinary = "rsync"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Reorganize: Reorganize{
			Workers:      defaultWorkers,
			Strategy:     defaultStrategy,
			CopySidecars: true,
		},
		Rsync: Rsync{
			Binary: defaultRsyncBinary,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
