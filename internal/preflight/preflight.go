package preflight

import (
	"context"

	"maqamat/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Detail   string `json:"detail"`
	Optional bool   `json:"optional,omitempty"`
}

// RunAll executes all applicable offline preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Tables and catalogs (always checked)
	results = append(results, CheckDataSource(cfg.Paths.DataDir))
	results = append(results, CheckLocales(cfg.Paths.LocaleDir, cfg.Site.Languages, cfg.Site.DefaultLanguage))

	// Writable directories
	results = append(results, CheckWritableDirectory("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckWritableDirectory("Log directory", cfg.Paths.LogDir))

	// Page cache
	if cfg.Reference.CacheEnabled {
		results = append(results, CheckWritableDirectory("Cache directory", cfg.Paths.CacheDir))
		results = append(results, CheckCacheFromConfig(ctx, cfg))
	}

	// Tidy
	if cfg.Tidy.Enabled {
		results = append(results, CheckTidyFromConfig(ctx, cfg))
	}

	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}
