package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"maqamat/internal/combination"
	"maqamat/internal/scale"
	"maqamat/internal/services"
)

type segmentView struct {
	Name    string `json:"name"`
	Overlap int    `json:"overlap,omitempty"`
}

type encodeView struct {
	combinationView
	Segments []segmentView `json:"segments"`
	Degrees  []int         `json:"degrees"`
}

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <expression>",
		Short: "Resolve a combination expression and print its binary encoding",
		Long: "Resolve a combination expression such as \"rast3 + nahawand\" against the jins\n" +
			"registry. A trailing digit N keeps the first N-1 intervals of that jins.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.loadTables()
			if err != nil {
				return err
			}
			expression := strings.Join(args, " ")
			resolved, err := combination.Resolve(expression, data.registry)
			if err != nil {
				return services.Wrap(services.ErrValidation, "encode", "resolve", expression, err)
			}
			segments, err := combination.Segments(expression)
			if err != nil {
				return services.Wrap(services.ErrValidation, "encode", "segments", expression, err)
			}
			view := encodeView{
				combinationView: newCombinationView(resolved),
				Degrees:         scale.Encode(resolved.Intervals).Degrees(),
			}
			for _, seg := range segments {
				view.Segments = append(view.Segments, segmentView{Name: seg.Name, Overlap: seg.Overlap})
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Expression: %s\n", view.Name)
			fmt.Fprintf(out, "Steps:      %s\n", formatIntervals(view.Intervals))
			fmt.Fprintf(out, "Intervals:  %s\n", view.Pretty)
			fmt.Fprintf(out, "Span:       %s tones\n", view.Tones)
			fmt.Fprintf(out, "Binary:     %s\n", view.Binary)
			fmt.Fprintf(out, "Degrees:    %s\n", formatIntervals(view.Degrees))
			return nil
		},
	}
}
