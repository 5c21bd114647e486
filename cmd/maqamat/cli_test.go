package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maqamat/internal/maqam"
	"maqamat/internal/pagecache"
	"maqamat/internal/services"
	"maqamat/internal/site"
	"maqamat/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	cacheDB    string
}

func setupCLITestEnv(t *testing.T, referenceURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	if referenceURL == "" {
		referenceURL = "http://127.0.0.1:9/en"
	}
	env := &cliTestEnv{
		baseDir:   base,
		outputDir: filepath.Join(base, "site"),
		cacheDB:   filepath.Join(base, "cache", "pages.db"),
	}
	env.configPath = testsupport.WriteConfig(t, fmt.Sprintf(`
[paths]
output_dir = %q
cache_dir = %q
log_dir = %q

[site]
languages = ["en", "ar"]

[reference]
base_url = %q
user_agent = "maqamat/test"

[logging]
level = "error"
`, env.outputDir, filepath.Join(base, "cache"), filepath.Join(base, "logs"), referenceURL))
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeJSON(t *testing.T, out string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
}

func TestCLIAjnasCommands(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"ajnas", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("ajnas list: %v", err)
	}
	for _, want := range []string{"rast", "upper_rast", "23 ajnas from embedded"} {
		if !strings.Contains(out, want) {
			t.Fatalf("ajnas list missing %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, []string{"--json", "ajnas", "show", "rast"}, env.configPath)
	if err != nil {
		t.Fatalf("ajnas show: %v", err)
	}
	var view combinationView
	decodeJSON(t, out, &view)
	if view.Name != "rast" || formatIntervals(view.Intervals) != "4 3 3 4" {
		t.Fatalf("unexpected jins view: %#v", view)
	}
	if view.Binary != "0b000010010010001000000000" {
		t.Fatalf("binary = %s", view.Binary)
	}
	if view.Pretty != "1 → ¾ → ¾ → 1" || view.Tones != "3.5" {
		t.Fatalf("unexpected pretty/tones: %q %q", view.Pretty, view.Tones)
	}

	_, _, err = runCLI(t, []string{"ajnas", "show", "nope"}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCLIMaqamatCommands(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"maqamat", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("maqamat list: %v", err)
	}
	if !strings.Contains(out, "17 maqamat, 0 failed") {
		t.Fatalf("unexpected maqamat list output:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"--json", "maqamat", "show", "saba"}, env.configPath)
	if err != nil {
		t.Fatalf("maqamat show: %v", err)
	}
	var detail maqamDetailView
	decodeJSON(t, out, &detail)
	if detail.Tonic.Name != "saba3 + hijaz" || formatIntervals(detail.Tonic.Intervals) != "3 3 2 6 2" {
		t.Fatalf("unexpected tonic: %#v", detail.Tonic)
	}
	if len(detail.Ghammaz) != 1 || len(detail.Views) != 2 {
		t.Fatalf("expected one ghammaz option and two views, got %#v", detail)
	}

	_, _, err = runCLI(t, []string{"maqamat", "show", "missing"}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCLIMaqamatShowReportsFailedRow(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDataDir(map[string]string{
		"ajnas.csv":   "name,intervals\nrast,4 3 3 4\n",
		"maqamat.csv": "name,tonic,ghammaz_option1,ghammaz_option2\nrast,rast,,\nbroken,rast,nope,\n",
	}))
	configPath := testsupport.WriteConfig(t, fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n", cfg.Paths.DataDir, cfg.Paths.LogDir))

	out, _, err := runCLI(t, []string{"--json", "maqamat", "list", "--failed"}, configPath)
	if err != nil {
		t.Fatalf("maqamat list: %v", err)
	}
	var rows []maqamRowView
	decodeJSON(t, out, &rows)
	if len(rows) != 1 || rows[0].Name != "broken" || rows[0].Field != maqam.FieldGhammaz1 {
		t.Fatalf("unexpected failed rows: %#v", rows)
	}

	_, _, err = runCLI(t, []string{"maqamat", "show", "broken"}, configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var fieldErr *maqam.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != maqam.FieldGhammaz1 {
		t.Fatalf("expected FieldError for ghammaz_option1, got %v", err)
	}
}

func TestCLIEncode(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"--json", "encode", "rast3", "+", "nahawand"}, env.configPath)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var view encodeView
	decodeJSON(t, out, &view)
	if view.Name != "rast3 + nahawand" {
		t.Fatalf("name = %q", view.Name)
	}
	if got := formatIntervals(view.Intervals); got != "4 3 4 2 4 4" {
		t.Fatalf("intervals = %s", got)
	}
	if got := formatIntervals(view.Degrees); got != "4 7 11 13 17 21" {
		t.Fatalf("degrees = %s", got)
	}
	if len(view.Segments) != 2 || view.Segments[0].Overlap != 3 || view.Segments[1].Overlap != 0 {
		t.Fatalf("unexpected segments: %#v", view.Segments)
	}

	tests := []struct {
		name       string
		expression string
	}{
		{name: "unknown jins", expression: "rast + nope"},
		{name: "overlap zero", expression: "rast0"},
		{name: "overlap too large", expression: "sikah4"},
		{name: "dangling separator", expression: "rast +"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, []string{"encode", tc.expression}, env.configPath)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if services.ExitCode(err) != services.ExitFailure {
				t.Fatalf("exit code = %d", services.ExitCode(err))
			}
		})
	}
}

func TestCLIMatch(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"--json", "match", "4", "7,10", "14"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var view matchView
	decodeJSON(t, out, &view)
	if view.Mask != "0b000010010010001000000000" {
		t.Fatalf("mask = %s", view.Mask)
	}
	found := false
	for _, m := range view.Matches {
		if m.Maqam == "rast" {
			found = len(m.Offsets) > 0 && m.Offsets[0] == 0
		}
	}
	if !found {
		t.Fatalf("expected rast to match at offset 0, got %#v", view.Matches)
	}

	for _, arg := range []string{"24", "-1", "x"} {
		_, _, err := runCLI(t, []string{"match", "--", arg}, env.configPath)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("match %s: expected ErrValidation, got %v", arg, err)
		}
	}
}

func TestCLIRender(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"--json", "render"}, env.configPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var summary site.Summary
	decodeJSON(t, out, &summary)
	if summary.Maqamat != 17 || summary.Ajnas != 23 {
		t.Fatalf("unexpected counts: %#v", summary)
	}
	if len(summary.Pages) != 2 {
		t.Fatalf("expected two pages, got %#v", summary.Pages)
	}
	for _, lang := range []string{"en", "ar"} {
		for _, name := range []string{site.PageName, site.DataName} {
			if _, err := os.Stat(filepath.Join(env.outputDir, lang, name)); err != nil {
				t.Fatalf("expected %s/%s: %v", lang, name, err)
			}
		}
	}

	out, _, err = runCLI(t, []string{"render", "--lang", "en"}, env.configPath)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !strings.Contains(out, filepath.Join(env.outputDir, "en")) || strings.Contains(out, filepath.Join(env.outputDir, "ar")) {
		t.Fatalf("unexpected rerender output:\n%s", out)
	}
}

func TestCLIRenderOutputOverrideAndUnknownLanguage(t *testing.T) {
	env := setupCLITestEnv(t, "")
	target := filepath.Join(env.baseDir, "elsewhere")

	if _, _, err := runCLI(t, []string{"render", "--output", target, "--lang", "ar"}, env.configPath); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "ar", site.PageName)); err != nil {
		t.Fatalf("expected page under override: %v", err)
	}

	_, _, err := runCLI(t, []string{"render", "--lang", "tr"}, env.configPath)
	if err == nil {
		t.Fatal("expected render to fail without a tr catalog")
	}
	if services.ExitCode(err) != services.ExitConfiguration {
		t.Fatalf("exit code = %d (%v)", services.ExitCode(err), err)
	}
}

func TestCLIRenderStrict(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDataDir(map[string]string{
		"ajnas.csv":   "name,intervals\nrast,4 3 3 4\n",
		"maqamat.csv": "name,tonic\nrast,rast\nbroken,nope\n",
	}))
	configPath := testsupport.WriteConfig(t, fmt.Sprintf(`
[paths]
data_dir = %q
output_dir = %q
cache_dir = %q
log_dir = %q

[logging]
level = "error"
`, cfg.Paths.DataDir, cfg.Paths.OutputDir, cfg.Paths.CacheDir, cfg.Paths.LogDir))

	out, _, err := runCLI(t, []string{"render"}, configPath)
	if err != nil {
		t.Fatalf("lenient render: %v", err)
	}
	if !strings.Contains(out, "Skipped 1 maqamat") {
		t.Fatalf("expected skipped row in output:\n%s", out)
	}

	_, _, err = runCLI(t, []string{"render", "--strict"}, configPath)
	var strictErr *site.StrictError
	if !errors.As(err, &strictErr) {
		t.Fatalf("expected StrictError, got %v", err)
	}
	if services.ExitCode(err) != services.ExitFailure {
		t.Fatalf("exit code = %d", services.ExitCode(err))
	}
}

func TestCLIConfigCommands(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "maqamat.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected validate output: %q", out)
	}

	bad := testsupport.WriteConfig(t, "[site]\nlanguages = [\"en\"]\nunknown_key = true\n")
	_, _, err = runCLI(t, []string{"config", "validate"}, bad)
	if services.ExitCode(err) != services.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %d (%v)", services.ExitCode(err), err)
	}
}

func TestCLIDoctor(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	for _, want := range []string{"== maqamat doctor ==", "Data tables:", "[OK]", "tidy:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("doctor output missing %q:\n%s", want, out)
		}
	}

	broken := testsupport.WriteConfig(t, fmt.Sprintf(`
[paths]
data_dir = %q
log_dir = %q
`, filepath.Join(env.baseDir, "no-such-data"), filepath.Join(env.baseDir, "logs")))
	_, _, err = runCLI(t, []string{"--json", "doctor"}, broken)
	if services.ExitCode(err) != services.ExitConfiguration {
		t.Fatalf("expected configuration failure, got %v", err)
	}
}

func TestCLICacheCommands(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	if !strings.Contains(out, "is empty") {
		t.Fatalf("unexpected empty cache output: %q", out)
	}

	store, err := pagecache.Open(env.cacheDB)
	if err != nil {
		t.Fatalf("pagecache.Open: %v", err)
	}
	testsupport.PutPage(t, store, "http://example.test/en/maqam/rast.php", "<html>rast</html>")
	testsupport.PutPage(t, store, "http://example.test/en/maqam/ajam.php", "<html>ajam</html>")
	_ = store.Close()

	out, _, err = runCLI(t, []string{"--json", "cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	var entries []cacheEntryView
	decodeJSON(t, out, &entries)
	if len(entries) != 2 || entries[0].URL != "http://example.test/en/maqam/ajam.php" {
		t.Fatalf("unexpected entries: %#v", entries)
	}

	if _, _, err := runCLI(t, []string{"cache", "remove", entries[0].URL}, env.configPath); err != nil {
		t.Fatalf("cache remove: %v", err)
	}
	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached page(s)") {
		t.Fatalf("unexpected clear output: %q", out)
	}
}

const referenceMenu = `<html><body>
<ul class="sub-menu">
  <li><a href="/en/maqam/ajam.php">Ajam</a></li>
  <li><a href="/en/maqam/rast.php">Rast</a></li>
  <li><a href="/en/maqam/shawq_afza.php">Shawq Afza</a></li>
</ul>
<a class="mapLink" href="../jins/ajam.php">Ajam</a>
</body></html>`

func TestCLIReferenceCommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/en/maqam/ajam.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(referenceMenu))
	})
	mux.HandleFunc("/en/maqam/rast.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><a class="mapLink" href="../jins/rast.php">R</a><a class="mapLink" href="../jins/upper_rast.php">U</a></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	env := setupCLITestEnv(t, server.URL+"/en")

	out, _, err := runCLI(t, []string{"reference", "maqamat"}, env.configPath)
	if err != nil {
		t.Fatalf("reference maqamat: %v", err)
	}
	if got := strings.Fields(out); strings.Join(got, ",") != "ajam,rast,shawq_afza" {
		t.Fatalf("unexpected maqamat: %q", out)
	}

	out, _, err = runCLI(t, []string{"reference", "ajnas", "rast"}, env.configPath)
	if err != nil {
		t.Fatalf("reference ajnas: %v", err)
	}
	if strings.TrimSpace(out) != "rast: rast, upper_rast" {
		t.Fatalf("unexpected ajnas: %q", out)
	}

	out, _, err = runCLI(t, []string{"--json", "reference", "survey"}, env.configPath)
	if err != nil {
		t.Fatalf("reference survey: %v", err)
	}
	var survey surveyView
	decodeJSON(t, out, &survey)
	if len(survey.Entries) != 2 {
		t.Fatalf("expected two surveyed maqamat, got %#v", survey.Entries)
	}
	if _, ok := survey.Failed["shawq_afza"]; !ok {
		t.Fatalf("expected shawq_afza failure, got %#v", survey.Failed)
	}
	if len(survey.MissingLocal) != 0 {
		t.Fatalf("unexpected missing maqamat: %v", survey.MissingLocal)
	}

	store, err := pagecache.Open(env.cacheDB)
	if err != nil {
		t.Fatalf("pagecache.Open: %v", err)
	}
	defer store.Close()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected the fetched pages to be cached, got %d", len(entries))
	}
}

func TestNormalizeLanguages(t *testing.T) {
	got := normalizeLanguages([]string{"EN", "ara", "en", " ar "})
	if strings.Join(got, ",") != "en,ar" {
		t.Fatalf("normalizeLanguages = %v", got)
	}
}
