package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"maqamat/internal/maqam"
	"maqamat/internal/scale"
	"maqamat/internal/services"
)

type matchView struct {
	Degrees []int               `json:"degrees"`
	Mask    string              `json:"mask"`
	Matches []maqam.MatchResult `json:"matches"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "match <degree>...",
		Short: "Find maqamat containing the given degrees in any transposition",
		Long: "Degrees are quarter-tone offsets above the tonic, from 0 to 23.\n" +
			"Offsets in the result are the rotations at which each maqam contains them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			degrees, err := parseDegrees(args)
			if err != nil {
				return err
			}
			data, err := ctx.loadTables()
			if err != nil {
				return err
			}
			selected := scale.FromDegrees(degrees)
			view := matchView{
				Degrees: degrees,
				Mask:    selected.Literal(),
				Matches: maqam.Match(selected, maqam.Succeeded(data.results)),
			}
			if view.Matches == nil {
				view.Matches = []maqam.MatchResult{}
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			if len(view.Matches) == 0 {
				fmt.Fprintf(out, "No maqam contains %s\n", view.Mask)
				return nil
			}
			rows := make([][]string, 0, len(view.Matches))
			for _, m := range view.Matches {
				rows = append(rows, []string{m.Maqam, formatIntervals(m.Offsets)})
			}
			caption := fmt.Sprintf("%d maqamat contain %s", len(view.Matches), view.Mask)
			fmt.Fprintln(out, renderTable([]string{"Maqam", "Offsets"}, rows, nil, caption))
			return nil
		},
	}
}

func parseDegrees(args []string) ([]int, error) {
	var degrees []int
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			value, err := strconv.Atoi(field)
			if err != nil || value < 0 || value >= scale.Width {
				return nil, services.Wrap(services.ErrValidation, "match", "parse degrees",
					fmt.Sprintf("degree %q must be an integer from 0 to %d", field, scale.Width-1), nil)
			}
			degrees = append(degrees, value)
		}
	}
	if len(degrees) == 0 {
		return nil, services.Wrap(services.ErrValidation, "match", "parse degrees", "no degrees given", nil)
	}
	return degrees, nil
}
