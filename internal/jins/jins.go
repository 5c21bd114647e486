package jins

import "slices"

// Jins is a named melodic fragment. Intervals are quarter-tone steps between
// successive scale degrees in ascending order.
type Jins struct {
	Name      string `json:"name"`
	Intervals []int  `json:"intervals"`
}

// Clone returns a copy that shares no memory with j.
func (j Jins) Clone() Jins {
	return Jins{Name: j.Name, Intervals: slices.Clone(j.Intervals)}
}

// Span returns the total width of the fragment in quarter-tones.
func (j Jins) Span() int {
	total := 0
	for _, steps := range j.Intervals {
		total += steps
	}
	return total
}

// Equal reports whether both fragments share the name and interval sequence.
func (j Jins) Equal(other Jins) bool {
	return j.Name == other.Name && slices.Equal(j.Intervals, other.Intervals)
}
