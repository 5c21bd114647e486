package site_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"maqamat/internal/jins"
	"maqamat/internal/locale"
	"maqamat/internal/maqam"
	"maqamat/internal/services"
	"maqamat/internal/site"
	"maqamat/internal/testsupport"
)

var sampleRows = []maqam.Row{
	{Line: 2, Name: "rast", Tonic: "rast", Ghammaz1: "upper_rast", Ghammaz2: "nahawand4"},
	{Line: 3, Name: "sikah", Tonic: "sikah", Ghammaz1: "rast + sikah2"},
	{Line: 4, Name: "hijazkar", Tonic: "hijaz", Ghammaz1: "nikriz3 + hijazkar"},
}

func newBuilder(t *testing.T) *site.Builder {
	t.Helper()
	cat, err := locale.Load("", "en")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	renderer, err := site.NewRenderer(cat, "Maqamat", "https://maqamworld.com/note/maqam")
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return site.NewBuilder(renderer, nil)
}

type recordingTidier struct {
	paths []string
	err   error
}

func (r *recordingTidier) Tidy(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func TestBuildWritesEveryLanguage(t *testing.T) {
	out := t.TempDir()
	tidier := &recordingTidier{}
	results := testsupport.Results(t, sampleRows...)

	summary, err := newBuilder(t).Build(context.Background(), testsupport.StandardAjnas, results, site.Options{
		OutputDir: out,
		Languages: []string{"en", "ar"},
		Verify:    true,
		Tidy:      tidier,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if summary.Maqamat != 3 || summary.Ajnas != len(testsupport.StandardAjnas) {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if len(summary.Pages) != 2 || !summary.Pages[0].Changed {
		t.Fatalf("unexpected pages: %+v", summary.Pages)
	}
	if len(tidier.paths) != 2 {
		t.Fatalf("expected tidy per page, got %v", tidier.paths)
	}

	ar, err := os.ReadFile(filepath.Join(out, "ar", site.PageName))
	if err != nil {
		t.Fatalf("read ar page: %v", err)
	}
	page := string(ar)
	for _, fragment := range []string{
		`<html lang="ar" dir="rtl">`,
		"سيكاه",
		"راست + سيكاه",
		`href="../en/index.html"`,
		"https://maqamworld.com/note/maqam/sikah.png",
		"¾",
	} {
		if !strings.Contains(page, fragment) {
			t.Errorf("ar page missing %q", fragment)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "en", site.DataName)); err != nil {
		t.Fatalf("expected match data beside page: %v", err)
	}
	assets, err := os.ReadDir(filepath.Join(out, site.AssetDir))
	if err != nil || len(assets) != 2 {
		t.Fatalf("expected two fingerprinted assets, got %v err=%v", assets, err)
	}
}

func TestBuildRerunReportsUnchanged(t *testing.T) {
	out := t.TempDir()
	builder := newBuilder(t)
	results := testsupport.Results(t, sampleRows...)
	opts := site.Options{OutputDir: out, Languages: []string{"en"}}

	if _, err := builder.Build(context.Background(), testsupport.StandardAjnas, results, opts); err != nil {
		t.Fatal(err)
	}
	summary, err := builder.Build(context.Background(), testsupport.StandardAjnas, results, opts)
	if err != nil {
		t.Fatal(err)
	}
	// Each run stamps its own run id and timestamp into the page.
	if !summary.Pages[0].Changed {
		t.Fatal("expected page to change between runs")
	}
}

func TestBuildSkipsFailedMaqamat(t *testing.T) {
	out := t.TempDir()
	rows := append([]maqam.Row{{Line: 9, Name: "broken", Tonic: "nosuch"}}, sampleRows...)
	results := testsupport.Results(t, rows...)

	summary, err := newBuilder(t).Build(context.Background(), testsupport.StandardAjnas, results, site.Options{
		OutputDir: out,
		Languages: []string{"en"},
		Verify:    true,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if summary.Maqamat != 3 || len(summary.Failures) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if f := summary.Failures[0]; f.Maqam != "broken" || f.Field != maqam.FieldTonic || f.Line != 9 {
		t.Fatalf("unexpected failure: %+v", f)
	}
}

func TestBuildStrictRefusesFailures(t *testing.T) {
	out := t.TempDir()
	results := testsupport.Results(t, maqam.Row{Line: 2, Name: "broken", Tonic: "rast", Ghammaz1: "rast +"})

	_, err := newBuilder(t).Build(context.Background(), testsupport.StandardAjnas, results, site.Options{
		OutputDir: out,
		Languages: []string{"en"},
		Strict:    true,
	})
	var strict *site.StrictError
	if !errors.As(err, &strict) {
		t.Fatalf("expected StrictError, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "en", site.PageName)); !os.IsNotExist(err) {
		t.Fatalf("expected no page written in strict mode, stat err=%v", err)
	}
}

func TestBuildFailsWhenLocked(t *testing.T) {
	out := t.TempDir()
	lock := flock.New(filepath.Join(out, ".render.lock"))
	if ok, err := lock.TryLock(); err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	defer lock.Unlock()

	_, err := newBuilder(t).Build(context.Background(), testsupport.StandardAjnas, testsupport.Results(t, sampleRows...), site.Options{
		OutputDir: out,
		Languages: []string{"en"},
	})
	if !errors.Is(err, site.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestBuildAbortsOnUnknownInterval(t *testing.T) {
	out := t.TempDir()
	odd := []jins.Jins{{Name: "odd", Intervals: []int{7, 1}}}

	_, err := newBuilder(t).Build(context.Background(), odd, nil, site.Options{
		OutputDir: out,
		Languages: []string{"en"},
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildPropagatesTidyFailure(t *testing.T) {
	tidier := &recordingTidier{err: services.Wrap(services.ErrExternalTool, "tidy", "run", "exit 2", nil)}
	_, err := newBuilder(t).Build(context.Background(), testsupport.StandardAjnas, testsupport.Results(t, sampleRows...), site.Options{
		OutputDir: t.TempDir(),
		Languages: []string{"en"},
		Tidy:      tidier,
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestBuildRequiresLanguages(t *testing.T) {
	_, err := newBuilder(t).Build(context.Background(), nil, nil, site.Options{OutputDir: t.TempDir()})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
