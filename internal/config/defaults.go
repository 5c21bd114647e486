package config

const (
	defaultConfigPath       = "~/.config/maqamat/config.toml"
	projectConfigName       = "maqamat.toml"
	cacheDBName             = "pages.db"
	logFileName             = "maqamat.log"
	defaultOutputDir        = "./site"
	defaultLogDir           = "~/.local/share/maqamat/logs"
	defaultSiteTitle        = "Maqamat"
	defaultLanguage         = "en"
	defaultImageBaseURL     = "https://maqamworld.com/note/maqam"
	defaultReferenceBaseURL = "http://maqamworld.com/en"
	defaultReferenceTimeout = 30
	defaultUserAgent        = "maqamat/dev"
	defaultTidyBinary       = "tidy"
	defaultTidyTimeout      = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

var (
	defaultLanguages     = []string{"en", "ar"}
	defaultReferenceSkip = []string{"sikah_baladi"}
	defaultTidyArgs      = []string{"-quiet", "-indent", "-modify", "-asxhtml", "-utf8"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			CacheDir:  defaultCacheDir(),
			LogDir:    defaultLogDir,
		},
		Site: Site{
			Title:           defaultSiteTitle,
			Languages:       append([]string(nil), defaultLanguages...),
			DefaultLanguage: defaultLanguage,
			ImageBaseURL:    defaultImageBaseURL,
			Verify:          true,
		},
		Reference: Reference{
			BaseURL:        defaultReferenceBaseURL,
			TimeoutSeconds: defaultReferenceTimeout,
			UserAgent:      defaultUserAgent,
			CacheEnabled:   true,
			Skip:           append([]string(nil), defaultReferenceSkip...),
		},
		Tidy: Tidy{
			Binary:         defaultTidyBinary,
			Args:           append([]string(nil), defaultTidyArgs...),
			TimeoutSeconds: defaultTidyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
