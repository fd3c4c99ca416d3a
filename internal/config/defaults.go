package config

import "github.com/quidome/mediasort/pkg/createdat"

const (
	defaultConfigPath = "~/.config/mediasort/config.toml"
	projectConfigName = "mediasort.toml"
	defaultMode       = "dryrun"
	defaultSrc        = "."
	defaultDest       = "."
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
	defaultLogFile    = "mediasort.log"
	defaultMinYear    = createdat.DefaultMinYear
	defaultMaxYear    = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Mode: defaultMode,
		Src:  defaultSrc,
		Dest: defaultDest,
		Log: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File:   defaultLogFile,
		},
		Plausibility: Plausibility{
			MinYear: defaultMinYear,
			MaxYear: defaultMaxYear,
		},
	}
}
