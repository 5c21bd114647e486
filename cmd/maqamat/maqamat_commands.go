package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"maqamat/internal/jins"
	"maqamat/internal/maqam"
	"maqamat/internal/services"
)

type maqamRowView struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Tonic    string `json:"tonic"`
	Ghammaz1 string `json:"ghammaz_option1,omitempty"`
	Ghammaz2 string `json:"ghammaz_option2,omitempty"`
	OK       bool   `json:"ok"`
	Field    string `json:"field,omitempty"`
	Error    string `json:"error,omitempty"`
}

type maqamDetailView struct {
	Name    string            `json:"name"`
	Tonic   combinationView   `json:"tonic"`
	Ghammaz []combinationView `json:"ghammaz,omitempty"`
	Views   []string          `json:"binary_views"`
}

func newMaqamatCommand(ctx *commandContext) *cobra.Command {
	maqamatCmd := &cobra.Command{
		Use:   "maqamat",
		Short: "Inspect assembled maqamat",
	}
	maqamatCmd.AddCommand(newMaqamatListCommand(ctx))
	maqamatCmd.AddCommand(newMaqamatShowCommand(ctx))
	return maqamatCmd
}

func newMaqamatListCommand(ctx *commandContext) *cobra.Command {
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every maqam row and whether it assembled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.loadTables()
			if err != nil {
				return err
			}
			views := make([]maqamRowView, 0, len(data.results))
			for _, res := range data.results {
				if failedOnly && res.OK() {
					continue
				}
				views = append(views, newMaqamRowView(res))
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				status := "ok"
				if !v.OK {
					status = fmt.Sprintf("%s: %s", v.Field, v.Error)
				}
				rows = append(rows, []string{v.Name, v.Tonic, v.Ghammaz1, v.Ghammaz2, status})
			}
			failed := len(maqam.Failed(data.results))
			caption := fmt.Sprintf("%d maqamat, %d failed, from %s", len(data.results)-failed, failed, data.source)
			headers := []string{"Maqam", "Tonic", "Ghammaz 1", "Ghammaz 2", "Status"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil, caption))
			return nil
		},
	}
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only list rows that failed to assemble")
	return cmd
}

func newMaqamatShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a maqam's combinations and binary views",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.loadTables()
			if err != nil {
				return err
			}
			res, err := data.lookupMaqam(args[0])
			if err != nil {
				return err
			}
			if !res.OK() {
				return services.Wrap(services.ErrValidation, "maqamat", "show", args[0], res.Err)
			}
			view := newMaqamDetailView(res.Maqam)
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			printMaqamDetail(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newMaqamRowView(res maqam.Result) maqamRowView {
	view := maqamRowView{
		Name:     res.Row.Name,
		Line:     res.Row.Line,
		Tonic:    res.Row.Tonic,
		Ghammaz1: res.Row.Ghammaz1,
		Ghammaz2: res.Row.Ghammaz2,
		OK:       res.OK(),
	}
	if res.Err != nil {
		view.Field = res.Err.Field
		view.Error = res.Err.Err.Error()
	}
	return view
}

func newMaqamDetailView(m *maqam.Maqam) maqamDetailView {
	tonic := m.Tonic()
	view := maqamDetailView{Name: m.Name(), Tonic: newCombinationView(tonic)}
	for _, g := range m.Ghammaz() {
		extended := jins.Jins{Name: tonic.Name + " | " + g.Name, Intervals: maqam.Extend(tonic, g)}
		view.Ghammaz = append(view.Ghammaz, newCombinationView(extended))
	}
	for _, v := range m.BinaryViews() {
		view.Views = append(view.Views, v.Literal())
	}
	return view
}

func printMaqamDetail(out io.Writer, view maqamDetailView) {
	fmt.Fprintf(out, "Maqam: %s\n", view.Name)
	fmt.Fprintf(out, "Tonic: %s\n", view.Tonic.Name)
	fmt.Fprintf(out, "  %s  (%s tones)\n", view.Tonic.Pretty, view.Tonic.Tones)
	for i, g := range view.Ghammaz {
		fmt.Fprintf(out, "Option %d: %s\n", i+1, g.Name)
		fmt.Fprintf(out, "  %s  (%s tones)\n", g.Pretty, g.Tones)
	}
	fmt.Fprintln(out, "Binary views:")
	for _, v := range view.Views {
		fmt.Fprintf(out, "  %s\n", v)
	}
}
