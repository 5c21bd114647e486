package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"maqamat/internal/config"
	"maqamat/internal/locale"
	"maqamat/internal/preflight"
	"maqamat/internal/services"
	"maqamat/internal/site"
	"maqamat/internal/tidy"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var languages []string
	var outputDir string
	var strict bool
	var noVerify bool
	var noTidy bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the site for every configured language",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputDir) != "" {
				expanded, err := config.ExpandPath(outputDir)
				if err != nil {
					return services.Wrap(services.ErrConfiguration, "render", "output", outputDir, err)
				}
				cfg.Paths.OutputDir = expanded
			}
			if len(languages) > 0 {
				cfg.Site.Languages = normalizeLanguages(languages)
			}
			if noTidy {
				cfg.Tidy.Enabled = false
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return services.Wrap(services.ErrConfiguration, "render", "directories", "", err)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "render", "preflight",
					fmt.Sprintf("%s: %s", failed[0].Name, failed[0].Detail), nil)
			}

			data, err := ctx.loadTables()
			if err != nil {
				return err
			}
			catalog, err := locale.Load(cfg.Paths.LocaleDir, cfg.Site.DefaultLanguage)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "render", "locales", cfg.Paths.LocaleDir, err)
			}
			renderer, err := site.NewRenderer(catalog, cfg.Site.Title, cfg.Site.ImageBaseURL)
			if err != nil {
				return err
			}

			opts := site.Options{
				OutputDir: cfg.Paths.OutputDir,
				Languages: cfg.Site.Languages,
				Strict:    cfg.Site.Strict || strict,
				Verify:    cfg.Site.Verify && !noVerify,
			}
			if cfg.Tidy.Enabled {
				opts.Tidy = tidy.New(cfg.Tidy, logger)
			}

			summary, err := site.NewBuilder(renderer, logger).Build(cmd.Context(), data.registry.All(), data.results, opts)
			if err != nil {
				var strictErr *site.StrictError
				if errors.As(err, &strictErr) && ctx.jsonOutput() && summary != nil {
					_ = writeJSON(cmd, summary)
				}
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summary)
			}
			printRenderSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&languages, "lang", nil, "Render only these languages (repeatable)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides paths.output_dir)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Refuse to render when any maqam fails to assemble")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip verification of the written pages")
	cmd.Flags().BoolVar(&noTidy, "no-tidy", false, "Skip HTML tidy even when enabled in config")
	return cmd
}

func normalizeLanguages(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			code := strings.ToLower(strings.TrimSpace(part))
			if code == "" {
				continue
			}
			if tag, err := language.Parse(code); err == nil {
				if base, confidence := tag.Base(); confidence != language.No {
					code = base.String()
				}
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	return out
}

func printRenderSummary(out io.Writer, summary *site.Summary) {
	fmt.Fprintf(out, "Run %s: %d maqamat, %d ajnas\n", summary.RunID, summary.Maqamat, summary.Ajnas)
	for _, page := range summary.Pages {
		state := "unchanged"
		if page.Changed {
			state = "written"
		}
		fmt.Fprintf(out, "  %-4s %s (%s)\n", page.Language, page.Path, state)
	}
	if len(summary.Failures) > 0 {
		fmt.Fprintf(out, "Skipped %d maqamat:\n", len(summary.Failures))
		for _, f := range summary.Failures {
			fmt.Fprintf(out, "  %s [%s]: %s\n", f.Maqam, f.Field, f.Error)
		}
	}
}
