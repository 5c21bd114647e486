package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"maqamat/internal/fileutil"
	"maqamat/internal/jins"
	"maqamat/internal/logging"
	"maqamat/internal/maqam"
	"maqamat/internal/services"
)

const (
	// PageName is the file written per language directory.
	PageName = "index.html"
	// DataName is the finder payload written beside each page.
	DataName = "maqamat.json"
	// AssetDir holds fingerprinted static files, shared by all languages.
	AssetDir = "assets"
	lockName = ".render.lock"
)

// ErrLocked is returned when another render holds the output directory.
var ErrLocked = errors.New("output directory is locked by another render")

// Tidier post-processes a written page in place.
type Tidier interface {
	Tidy(ctx context.Context, path string) error
}

// Options controls a Build.
type Options struct {
	OutputDir string
	Languages []string
	Strict    bool
	Verify    bool
	Tidy      Tidier
}

// PageResult describes one written language page.
type PageResult struct {
	Language string `json:"language"`
	Path     string `json:"path"`
	Changed  bool   `json:"changed"`
	Digest   string `json:"digest"`
}

// Failure is a maqam row that did not assemble.
type Failure struct {
	Maqam string `json:"maqam"`
	Field string `json:"field"`
	Line  int    `json:"line,omitempty"`
	Error string `json:"error"`
}

// Summary reports the outcome of a Build.
type Summary struct {
	RunID    string       `json:"run_id"`
	Maqamat  int          `json:"maqamat"`
	Ajnas    int          `json:"ajnas"`
	Pages    []PageResult `json:"pages"`
	Failures []Failure    `json:"failures,omitempty"`
}

// StrictError reports that strict mode refused to render because rows failed.
type StrictError struct {
	Failures []Failure
}

func (e *StrictError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Maqam)
	}
	return fmt.Sprintf("strict mode: %d maqamat failed to assemble: %s", len(e.Failures), strings.Join(names, ", "))
}

// Builder writes the site for every configured language.
type Builder struct {
	renderer *Renderer
	logger   *slog.Logger
	newID    func() string
}

// NewBuilder wires a renderer into a builder.
func NewBuilder(renderer *Renderer, logger *slog.Logger) *Builder {
	return &Builder{
		renderer: renderer,
		logger:   logging.NewComponentLogger(logger, "site"),
		newID:    uuid.NewString,
	}
}

// Build renders results into opts.OutputDir. Failed results are logged and
// skipped unless opts.Strict is set. The output directory is locked for the
// duration of the build.
func (b *Builder) Build(ctx context.Context, ajnas []jins.Jins, results []maqam.Result, opts Options) (*Summary, error) {
	if len(opts.Languages) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "render", "build", "no languages configured", nil)
	}

	runID := b.newID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, b.logger)

	content := Content{Ajnas: ajnas, Maqamat: maqam.Succeeded(results)}
	summary := &Summary{RunID: runID, Maqamat: len(content.Maqamat), Ajnas: len(content.Ajnas)}
	for _, res := range maqam.Failed(results) {
		failure := Failure{Maqam: res.Err.Maqam, Field: res.Err.Field, Line: res.Err.Line, Error: res.Err.Err.Error()}
		summary.Failures = append(summary.Failures, failure)
		logging.WarnWithContext(logger, "maqam skipped", "maqam_assembly_failed",
			logging.String(logging.FieldMaqam, failure.Maqam),
			logging.String(logging.FieldField, failure.Field),
			logging.Int("line", failure.Line),
			logging.String("error", failure.Error),
			logging.String(logging.FieldErrorHint, "fix the maqam row in the data directory"),
			logging.String(logging.FieldImpact, "maqam missing from rendered pages"),
		)
	}
	if opts.Strict && len(summary.Failures) > 0 {
		return summary, &StrictError{Failures: summary.Failures}
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(opts.OutputDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "render", "lock", opts.OutputDir, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "render", "lock", opts.OutputDir, ErrLocked)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	assets, err := b.writeAssets(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	pageAssets := Assets{CSS: path.Join("..", assets.CSS), JS: path.Join("..", assets.JS)}

	payload, err := json.MarshalIndent(NewMatchData(content.Maqamat), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode match data: %w", err)
	}

	for _, lang := range opts.Languages {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		langCtx := services.WithLanguage(services.WithStage(ctx, "render"), lang)
		langLogger := logging.WithContext(langCtx, b.logger)

		page, err := b.renderer.Render(lang, opts.Languages, content, pageAssets, runID)
		if err != nil {
			return summary, services.Wrap(services.ErrValidation, "render", lang, "execute template", err)
		}
		dir := filepath.Join(opts.OutputDir, lang)
		pagePath := filepath.Join(dir, PageName)
		changed, err := fileutil.WriteFileAtomic(pagePath, page, 0o644)
		if err != nil {
			return summary, fmt.Errorf("write %s: %w", pagePath, err)
		}
		if _, err := fileutil.WriteFileAtomic(filepath.Join(dir, DataName), payload, 0o644); err != nil {
			return summary, fmt.Errorf("write %s data: %w", lang, err)
		}

		if opts.Tidy != nil {
			tidyCtx := services.WithStage(langCtx, "tidy")
			if err := opts.Tidy.Tidy(tidyCtx, pagePath); err != nil {
				return summary, err
			}
		}

		if opts.Verify {
			expect := Expectation{Language: lang, Direction: b.direction(lang), Maqamat: len(content.Maqamat), Ajnas: len(content.Ajnas)}
			if err := VerifyFile(pagePath, expect); err != nil {
				return summary, services.Wrap(services.ErrValidation, "verify", lang, pagePath, err)
			}
		}

		digest, err := fileutil.DigestFile(pagePath)
		if err != nil {
			return summary, err
		}
		summary.Pages = append(summary.Pages, PageResult{Language: lang, Path: pagePath, Changed: changed, Digest: digest})
		langLogger.Info("page written",
			logging.String(logging.FieldPath, pagePath),
			logging.Bool("changed", changed),
			logging.Int("maqamat", len(content.Maqamat)),
		)
	}
	return summary, nil
}

func (b *Builder) direction(lang string) string {
	if loc, err := b.renderer.catalog.Localizer(lang); err == nil {
		return loc.Direction()
	}
	return ""
}

// writeAssets copies the embedded static files into the output directory
// under content-addressed names and returns their paths relative to it.
func (b *Builder) writeAssets(outputDir string) (Assets, error) {
	var assets Assets
	err := fs.WalkDir(assetsFS, "assets", func(name string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		data, err := assetsFS.ReadFile(name)
		if err != nil {
			return err
		}
		base := path.Base(name)
		ext := path.Ext(base)
		fingerprinted := strings.TrimSuffix(base, ext) + "." + fileutil.Digest(data)[:12] + ext
		rel := path.Join(AssetDir, fingerprinted)
		if _, err := fileutil.WriteFileAtomic(filepath.Join(outputDir, filepath.FromSlash(rel)), data, 0o644); err != nil {
			return err
		}
		switch ext {
		case ".css":
			assets.CSS = rel
		case ".js":
			assets.JS = rel
		}
		return nil
	})
	if err != nil {
		return Assets{}, fmt.Errorf("write assets: %w", err)
	}
	return assets, nil
}
