package scale

import (
	"math/bits"
	"strconv"
	"strings"
)

// Width is the number of quarter-tone positions in the modelled octave.
const Width = 24

const fullMask Mask = 1<<Width - 1

// Mask is a set of scale-degree positions.
type Mask uint32

// Encode sets one bit per prefix sum of intervals.
func Encode(intervals []int) Mask {
	var m Mask
	position := 0
	for _, steps := range intervals {
		position += steps
		m |= 1 << bitFor(position)
	}
	return m
}

// bitFor maps a degree offset to its bit number using a non-negative modulo.
func bitFor(position int) int {
	bit := (Width - position - 1) % Width
	if bit < 0 {
		bit += Width
	}
	return bit
}

// FromDegrees builds a mask from degree offsets (quarter-tones above the
// tonic), the inverse of Degrees.
func FromDegrees(degrees []int) Mask {
	var m Mask
	for _, d := range degrees {
		m |= 1 << bitFor(d)
	}
	return m
}

// Bits returns the set bit numbers, highest first.
func (m Mask) Bits() []int {
	m &= fullMask
	out := make([]int, 0, bits.OnesCount32(uint32(m)))
	for bit := Width - 1; bit >= 0; bit-- {
		if m&(1<<bit) != 0 {
			out = append(out, bit)
		}
	}
	return out
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m & fullMask))
}

// Degrees returns the degree offsets of the set bits in ascending order.
// Bit 23 reads as offset 0.
func (m Mask) Degrees() []int {
	set := m.Bits()
	out := make([]int, 0, len(set))
	for _, bit := range set {
		out = append(out, Width-1-bit)
	}
	return out
}

// Rotate shifts every position one step towards the top bit, carrying bit 23
// around to bit 0.
func (m Mask) Rotate() Mask {
	m &= fullMask
	carry := m >> (Width - 1)
	return ((m << 1) | carry) & fullMask
}

// Contains reports whether every bit of sub is also set in m.
func (m Mask) Contains(sub Mask) bool {
	return m|sub == m
}

// String renders the mask as 24 binary digits, bit 23 first.
func (m Mask) String() string {
	s := strconv.FormatUint(uint64(m&fullMask), 2)
	if len(s) < Width {
		s = strings.Repeat("0", Width-len(s)) + s
	}
	return s
}

// Literal renders the mask as a Go-style binary literal, e.g. "0b000100…".
func (m Mask) Literal() string {
	return "0b" + m.String()
}
