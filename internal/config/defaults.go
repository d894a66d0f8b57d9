package config

const (
	defaultConfigPath  = "~/.config/subocr/config.toml"
	projectConfigName  = "subocr.toml"
	defaultLanguage    = "eng"
	defaultDPI         = 150
	defaultPageSegMode = 6
	defaultBlacklist   = "|[]"
	defaultBorder      = 5
	defaultAlpha       = 100
	defaultLuma        = 0.5
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		OCR: OCR{
			Languages:   []string{defaultLanguage},
			DPI:         defaultDPI,
			PageSegMode: defaultPageSegMode,
			Blacklist:   defaultBlacklist,
		},
		Preprocess: Preprocess{
			AlphaThreshold: defaultAlpha,
			LumaThreshold:  defaultLuma,
			Border:         defaultBorder,
			Polarity:       "auto",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
