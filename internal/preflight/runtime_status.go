package preflight

import (
	"context"
	"fmt"
	"os"

	"maqamat/internal/config"
	"maqamat/internal/pagecache"
)

// CheckCacheFromConfig reports the page cache state without creating it.
func CheckCacheFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Page cache"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown", Optional: true}
	}
	if !cfg.Reference.CacheEnabled {
		return Result{Name: name, Passed: true, Detail: "Disabled", Optional: true}
	}
	path := cfg.CacheDBPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (empty)", path), Optional: true}
	}
	store, err := pagecache.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err), Optional: true}
	}
	defer store.Close()

	entries, err := store.List(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err), Optional: true}
	}
	var stored int64
	for _, e := range entries {
		stored += e.StoredSize
	}
	return Result{
		Name:     name,
		Passed:   true,
		Detail:   fmt.Sprintf("%s (%d pages, %d bytes)", path, len(entries), stored),
		Optional: true,
	}
}

// CheckTidyFromConfig evaluates tidy availability from config.
func CheckTidyFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "tidy"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown", Optional: true}
	}
	if !cfg.Tidy.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled", Optional: true}
	}
	status := CheckSystemDeps(ctx, cfg)[0]
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	if status.Version != "" {
		return Result{Name: name, Passed: true, Detail: status.Version}
	}
	return Result{Name: name, Passed: true, Detail: status.Command}
}
