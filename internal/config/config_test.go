package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"maqamat/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("MAQAMAT_OUTPUT_DIR", filepath.Join(tempHome, "out"))

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "maqamat", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.CacheDir != filepath.Join(tempHome, ".cache", "maqamat") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "maqamat", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "out") {
		t.Fatalf("expected output dir from env, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.DataDir != "" {
		t.Fatalf("expected empty data dir for embedded data, got %q", cfg.Paths.DataDir)
	}
	if !slices.Equal(cfg.Site.Languages, []string{"en", "ar"}) {
		t.Fatalf("unexpected languages: %v", cfg.Site.Languages)
	}
	if cfg.Site.DefaultLanguage != "en" {
		t.Fatalf("unexpected default language: %q", cfg.Site.DefaultLanguage)
	}
	if !cfg.Site.Verify {
		t.Fatal("expected verify enabled by default")
	}
	if cfg.Site.Strict {
		t.Fatal("expected strict disabled by default")
	}
	if cfg.Reference.BaseURL != "http://maqamworld.com/en" {
		t.Fatalf("unexpected reference base url: %q", cfg.Reference.BaseURL)
	}
	if !slices.Equal(cfg.Reference.Skip, []string{"sikah_baladi"}) {
		t.Fatalf("unexpected skip list: %v", cfg.Reference.Skip)
	}
	if cfg.Tidy.Enabled {
		t.Fatal("expected tidy disabled by default")
	}
	if cfg.CacheDBPath() != filepath.Join(cfg.Paths.CacheDir, "pages.db") {
		t.Fatalf("unexpected cache db path: %q", cfg.CacheDBPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "maqamat.toml")
	t.Setenv("MAQAMAT_OUTPUT_DIR", "")
	t.Setenv("MAQAMAT_DATA_DIR", "")

	type payload struct {
		Paths struct {
			DataDir   string `toml:"data_dir"`
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Site struct {
			Languages       []string `toml:"languages"`
			DefaultLanguage string   `toml:"default_language"`
			Strict          bool     `toml:"strict"`
		} `toml:"site"`
		Reference struct {
			BaseURL string `toml:"base_url"`
		} `toml:"reference"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Paths.OutputDir = filepath.Join(tempDir, "public")
	custom.Site.Languages = []string{" AR ", "en", "ar"}
	custom.Site.DefaultLanguage = "ar"
	custom.Site.Strict = true
	custom.Reference.BaseURL = "https://example.com/en/"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.LanguageOutputDir("ar") != filepath.Join(tempDir, "public", "ar") {
		t.Fatalf("unexpected language output dir: %q", cfg.LanguageOutputDir("ar"))
	}
	if !slices.Equal(cfg.Site.Languages, []string{"ar", "en"}) {
		t.Fatalf("expected normalized languages, got %v", cfg.Site.Languages)
	}
	if !cfg.Site.Strict {
		t.Fatal("expected strict from file")
	}
	if cfg.Reference.BaseURL != "https://example.com/en" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Reference.BaseURL)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "maqamat.toml")
	if err := os.WriteFile(configPath, []byte("[site]\ntitel = \"typo\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestEnvOverridesConfigFileForDirectories(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "maqamat.toml")
	contents := "[paths]\ndata_dir = \"/from/file\"\noutput_dir = \"/from/file/out\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MAQAMAT_DATA_DIR", filepath.Join(tempDir, "env-data"))
	t.Setenv("MAQAMAT_OUTPUT_DIR", filepath.Join(tempDir, "env-out"))

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "env-data") {
		t.Errorf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "env-out") {
		t.Errorf("expected output dir from env, got %q", cfg.Paths.OutputDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "sikah_baladi") {
		t.Fatalf("sample config missing reference skip list: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Site.DefaultLanguage != "en" {
		t.Fatalf("unexpected sample default language: %q", cfg.Site.DefaultLanguage)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no languages", func(c *config.Config) { c.Site.Languages = nil }},
		{"bad language tag", func(c *config.Config) { c.Site.Languages = []string{"en", "not a tag"} }},
		{"default language not listed", func(c *config.Config) { c.Site.DefaultLanguage = "fr" }},
		{"bad image url", func(c *config.Config) { c.Site.ImageBaseURL = "ftp://example.com" }},
		{"bad reference url", func(c *config.Config) { c.Reference.BaseURL = "maqamworld.com" }},
		{"zero timeout", func(c *config.Config) { c.Reference.TimeoutSeconds = 0 }},
		{"tidy without timeout", func(c *config.Config) {
			c.Tidy.Enabled = true
			c.Tidy.TimeoutSeconds = 0
		}},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
