package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateReference(); err != nil {
		return err
	}
	if err := c.validateTidy(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.CacheDir == "" {
		return errors.New("paths.cache_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateSite() error {
	if len(c.Site.Languages) == 0 {
		return errors.New("site.languages must include at least one language")
	}
	for _, lang := range c.Site.Languages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("site.languages: invalid language tag %q: %w", lang, err)
		}
	}
	if !slices.Contains(c.Site.Languages, c.Site.DefaultLanguage) {
		return fmt.Errorf("site.default_language %q must be one of site.languages", c.Site.DefaultLanguage)
	}
	if c.Site.ImageBaseURL != "" {
		if err := validateURL(c.Site.ImageBaseURL); err != nil {
			return fmt.Errorf("site.image_base_url: %w", err)
		}
	}
	return nil
}

func (c *Config) validateReference() error {
	if err := validateURL(c.Reference.BaseURL); err != nil {
		return fmt.Errorf("reference.base_url: %w", err)
	}
	if c.Reference.TimeoutSeconds <= 0 {
		return errors.New("reference.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTidy() error {
	if !c.Tidy.Enabled {
		return nil
	}
	if c.Tidy.TimeoutSeconds <= 0 {
		return errors.New("tidy.timeout_seconds must be positive when tidy.enabled is true")
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
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
