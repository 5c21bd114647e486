package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"maqamat/internal/pagecache"
	"maqamat/internal/reference"
)

type surveyView struct {
	Entries      []reference.MaqamEntry `json:"entries"`
	Failed       map[string]string      `json:"failed,omitempty"`
	MissingLocal []string               `json:"missing_local,omitempty"`
}

func newReferenceCommand(ctx *commandContext) *cobra.Command {
	referenceCmd := &cobra.Command{
		Use:   "reference",
		Short: "Read maqam and jins listings from the reference site",
	}
	referenceCmd.AddCommand(newReferenceMaqamatCommand(ctx))
	referenceCmd.AddCommand(newReferenceAjnasCommand(ctx))
	referenceCmd.AddCommand(newReferenceSurveyCommand(ctx))
	return referenceCmd
}

// withReferenceClient builds a client, backed by the page cache when enabled,
// and closes the cache afterwards.
func withReferenceClient(ctx *commandContext, fn func(*reference.Client) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	var opts []reference.Option
	if cfg.Reference.CacheEnabled {
		var store *pagecache.Store
		store, err = ctx.openCache()
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, reference.WithCache(store))
	}
	return fn(reference.New(cfg.Reference, logger, opts...))
}

func newReferenceMaqamatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "maqamat",
		Short: "List the maqamat in the reference site menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReferenceClient(ctx, func(client *reference.Client) error {
				names, err := client.Maqamat(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, names)
				}
				out := cmd.OutOrStdout()
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			})
		},
	}
}

func newReferenceAjnasCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ajnas <maqam>",
		Short: "List the ajnas linked from a maqam's reference page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReferenceClient(ctx, func(client *reference.Client) error {
				ajnas, err := client.Ajnas(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, reference.MaqamEntry{Name: args[0], Ajnas: ajnas})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], strings.Join(ajnas, ", "))
				return nil
			})
		},
	}
}

func newReferenceSurveyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "survey",
		Short: "Fetch every reference maqam and compare with the local table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.loadTables()
			if err != nil {
				return err
			}
			local := make(map[string]struct{}, len(data.results))
			for _, res := range data.results {
				local[res.Row.Name] = struct{}{}
			}

			return withReferenceClient(ctx, func(client *reference.Client) error {
				entries, failed, err := client.Survey(cmd.Context())
				if err != nil {
					return err
				}
				view := surveyView{Entries: entries}
				if len(failed) > 0 {
					view.Failed = make(map[string]string, len(failed))
					for name, ferr := range failed {
						view.Failed[name] = ferr.Error()
					}
				}
				for _, entry := range entries {
					if _, ok := local[entry.Name]; !ok {
						view.MissingLocal = append(view.MissingLocal, entry.Name)
					}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					_, ok := local[entry.Name]
					rows = append(rows, []string{entry.Name, strings.Join(entry.Ajnas, ", "), yesNo(ok)})
				}
				caption := fmt.Sprintf("%d maqamat, %d missing locally", len(entries), len(view.MissingLocal))
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable([]string{"Maqam", "Ajnas", "Local"}, rows, nil, caption))
				if len(view.Failed) > 0 {
					names := make([]string, 0, len(view.Failed))
					for name := range view.Failed {
						names = append(names, name)
					}
					sort.Strings(names)
					fmt.Fprintln(out, "Failed:")
					for _, name := range names {
						fmt.Fprintf(out, "  %s: %s\n", name, view.Failed[name])
					}
				}
				return nil
			})
		},
	}
}
