package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"maqamat/internal/config"
	"maqamat/internal/dataset"
	"maqamat/internal/deps"
	"maqamat/internal/jins"
	"maqamat/internal/locale"
	"maqamat/internal/maqam"
)

const referenceTimeout = 10 * time.Second

// CheckDataSource loads the jins table and assembles every maqam row.
// Rows that fail to assemble are reported but do not fail the check; a broken
// jins table does.
func CheckDataSource(dir string) Result {
	const name = "Data tables"

	src := dataset.Dir(dir)
	reg, err := jins.Load(src)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", src.Label(), err)}
	}
	rows, err := src.MaqamRows()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", src.Label(), err)}
	}
	results := maqam.AssembleAll(rows, reg)
	failed := len(maqam.Failed(results))
	detail := fmt.Sprintf("%s (%d ajnas, %d maqamat", src.Label(), len(reg.Names()), len(results)-failed)
	if failed > 0 {
		detail += fmt.Sprintf(", %d rows skipped", failed)
	}
	return Result{Name: name, Passed: true, Detail: detail + ")"}
}

// CheckLocales verifies that a catalog exists for every configured language.
func CheckLocales(dir string, languages []string, fallback string) Result {
	const name = "Locale catalogs"

	cat, err := locale.Load(dir, fallback)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("load failed (%v)", err)}
	}
	var missing []string
	for _, lang := range languages {
		if _, err := cat.Localizer(lang); err != nil {
			missing = append(missing, lang)
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("missing catalogs: %s", strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(languages, ", ")}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckWritableDirectory is like CheckDirectoryAccess but accepts a missing
// directory when its nearest existing parent is writable, since the render
// creates it.
func CheckWritableDirectory(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(filepath.Clean(path))
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing parent)", path)}
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckReference verifies that the reference site answers.
func CheckReference(ctx context.Context, cfg config.Reference) Result {
	const name = "Reference site"

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url", Optional: true}
	}

	checkCtx, cancel := context.WithTimeout(ctx, referenceTimeout)
	defer cancel()

	client := &http.Client{Timeout: referenceTimeout}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err), Optional: true}
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err), Optional: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status (%d)", resp.StatusCode), Optional: true}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable", Optional: true}
}

// CheckSystemDeps evaluates the external binaries the given config calls.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "tidy",
			Command:     cfg.TidyBinary(),
			Description: "Required for HTML post-processing",
			Optional:    !cfg.Tidy.Enabled,
			VersionArgs: []string{"-version"},
		},
	}
	return deps.CheckBinaries(ctx, requirements)
}

// summarizeNetError produces a human-readable summary for connectivity failures.
func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (reference site unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (reference site unreachable)"
	}
	return err.Error()
}
