package main

import (
	"strconv"
	"strings"

	"maqamat/internal/interval"
	"maqamat/internal/jins"
	"maqamat/internal/scale"
)

// combinationView is the printable form of a resolved jins or combination.
type combinationView struct {
	Name      string `json:"name"`
	Intervals []int  `json:"intervals"`
	Pretty    string `json:"pretty"`
	Tones     string `json:"tones"`
	Binary    string `json:"binary"`
}

func newCombinationView(j jins.Jins) combinationView {
	return combinationView{
		Name:      j.Name,
		Intervals: append([]int(nil), j.Intervals...),
		Pretty:    prettyIntervals(j.Intervals),
		Tones:     formatTones(j.Intervals),
		Binary:    scale.Encode(j.Intervals).Literal(),
	}
}

// prettyIntervals renders glyphs, falling back to the raw step counts when a
// value is outside the vocabulary.
func prettyIntervals(intervals []int) string {
	pretty, err := interval.Pretty(intervals)
	if err != nil {
		return formatIntervals(intervals) + " (?)"
	}
	return pretty
}

func formatIntervals(intervals []int) string {
	parts := make([]string, len(intervals))
	for i, steps := range intervals {
		parts[i] = strconv.Itoa(steps)
	}
	return strings.Join(parts, " ")
}

func formatTones(intervals []int) string {
	total := 0
	for _, steps := range intervals {
		total += steps
	}
	return strconv.FormatFloat(interval.Tones(total), 'f', -1, 64)
}
