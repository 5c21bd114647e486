package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"maqamat/internal/preflight"
	"maqamat/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var online bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check data, directories and external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			if !cfg.Tidy.Enabled {
				results = append(results, preflight.CheckTidyFromConfig(cmd.Context(), cfg))
			}
			if online {
				results = append(results, preflight.CheckReference(cmd.Context(), cfg.Reference))
			}
			failed := preflight.Failed(results)

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("maqamat doctor", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configDetail(ctx), colorize))
				for _, result := range results {
					fmt.Fprintln(out, resultStatusLine(result, colorize))
				}
			}

			if len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, f := range failed {
					names = append(names, f.Name)
				}
				return services.Wrap(services.ErrConfiguration, "doctor", "", fmt.Sprintf("%d check(s) failed: %s", len(failed), strings.Join(names, ", ")), nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&online, "online", false, "Also check that the reference site is reachable")
	return cmd
}

func configDetail(ctx *commandContext) string {
	if ctx.configSeen {
		return ctx.configPath
	}
	return "defaults (no config file)"
}
