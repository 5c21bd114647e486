package maqam

import (
	"slices"

	"maqamat/internal/scale"
)

// MatchResult lists the transpositions of a maqam that contain the selected
// degrees. Offsets are rotation counts in quarter-tones.
type MatchResult struct {
	Maqam   string `json:"maqam"`
	Offsets []int  `json:"offsets"`
}

// Match rotates every binary view of every maqam through all positions and
// records the rotations that contain selected.
func Match(selected scale.Mask, maqamat []*Maqam) []MatchResult {
	var out []MatchResult
	for _, m := range maqamat {
		var offsets []int
		for _, view := range m.BinaryViews() {
			rotated := view
			for offset := 0; offset < scale.Width; offset++ {
				if offset > 0 {
					rotated = rotated.Rotate()
				}
				if rotated.Contains(selected) && !slices.Contains(offsets, offset) {
					offsets = append(offsets, offset)
				}
			}
		}
		if len(offsets) == 0 {
			continue
		}
		slices.Sort(offsets)
		out = append(out, MatchResult{Maqam: m.Name(), Offsets: offsets})
	}
	return out
}
