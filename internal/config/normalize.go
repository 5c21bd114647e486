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
	c.normalizeSite()
	c.normalizeReference()
	c.normalizeTidy()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("MAQAMAT_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if value, ok := os.LookupEnv("MAQAMAT_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(strings.TrimSpace(c.Paths.CacheDir)); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LocaleDir, err = expandPath(strings.TrimSpace(c.Paths.LocaleDir)); err != nil {
		return fmt.Errorf("paths.locale_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSite() {
	c.Site.Title = strings.TrimSpace(c.Site.Title)
	if c.Site.Title == "" {
		c.Site.Title = defaultSiteTitle
	}
	c.Site.Languages = normalizeList(c.Site.Languages, strings.ToLower)
	if len(c.Site.Languages) == 0 {
		c.Site.Languages = append([]string(nil), defaultLanguages...)
	}
	c.Site.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.Site.DefaultLanguage))
	if c.Site.DefaultLanguage == "" {
		c.Site.DefaultLanguage = c.Site.Languages[0]
	}
	c.Site.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.Site.ImageBaseURL), "/")
}

func (c *Config) normalizeReference() {
	c.Reference.BaseURL = strings.TrimRight(strings.TrimSpace(c.Reference.BaseURL), "/")
	if c.Reference.BaseURL == "" {
		c.Reference.BaseURL = defaultReferenceBaseURL
	}
	c.Reference.UserAgent = strings.TrimSpace(c.Reference.UserAgent)
	if c.Reference.UserAgent == "" {
		c.Reference.UserAgent = defaultUserAgent
	}
	c.Reference.Skip = normalizeList(c.Reference.Skip, strings.ToLower)
}

func (c *Config) normalizeTidy() {
	c.Tidy.Binary = strings.TrimSpace(c.Tidy.Binary)
	if c.Tidy.Binary == "" {
		c.Tidy.Binary = defaultTidyBinary
	}
	if c.Tidy.Args == nil {
		c.Tidy.Args = append([]string(nil), defaultTidyArgs...)
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

func normalizeList(values []string, transform func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = transform(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
