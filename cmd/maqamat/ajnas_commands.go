package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"maqamat/internal/scale"
	"maqamat/internal/services"
)

func newAjnasCommand(ctx *commandContext) *cobra.Command {
	ajnasCmd := &cobra.Command{
		Use:   "ajnas",
		Short: "Inspect the jins registry",
	}
	ajnasCmd.AddCommand(newAjnasListCommand(ctx))
	ajnasCmd.AddCommand(newAjnasShowCommand(ctx))
	return ajnasCmd
}

func newAjnasListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every jins with its intervals and mask",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.loadTables()
			if err != nil {
				return err
			}
			all := data.registry.All()
			views := make([]combinationView, 0, len(all))
			for _, j := range all {
				views = append(views, newCombinationView(j))
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{v.Name, formatIntervals(v.Intervals), v.Pretty, v.Tones, v.Binary})
			}
			headers := []string{"Jins", "Steps", "Intervals", "Tones", "Binary"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
			caption := fmt.Sprintf("%d ajnas from %s", len(views), data.source)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns, caption))
			return nil
		},
	}
}

func newAjnasShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a single jins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.loadTables()
			if err != nil {
				return err
			}
			j, ok := data.registry.Lookup(args[0])
			if !ok {
				return services.Wrap(services.ErrNotFound, "ajnas", "show", fmt.Sprintf("jins %q not in %s", args[0], data.source), nil)
			}
			view := newCombinationView(j)
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Jins:      %s\n", view.Name)
			fmt.Fprintf(out, "Steps:     %s\n", formatIntervals(view.Intervals))
			fmt.Fprintf(out, "Intervals: %s\n", view.Pretty)
			fmt.Fprintf(out, "Span:      %s tones\n", view.Tones)
			fmt.Fprintf(out, "Binary:    %s\n", view.Binary)
			fmt.Fprintf(out, "Degrees:   %s\n", formatIntervals(scale.Encode(view.Intervals).Degrees()))
			return nil
		},
	}
}
