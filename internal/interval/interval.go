package interval

import (
	"fmt"
	"strings"
)

// StepsPerTone is the number of quarter-tone steps in one whole tone.
const StepsPerTone = 4

// Arrow separates glyphs in pretty-printed interval strings.
const Arrow = " → "

var glyphs = map[int]string{
	1: "¼",
	2: "½",
	3: "¾",
	4: "1",
	5: "1¼",
	6: "1½",
}

// UnknownIntervalError reports a step count outside the vocabulary.
type UnknownIntervalError struct {
	Steps int
}

func (e *UnknownIntervalError) Error() string {
	return fmt.Sprintf("unknown interval: %d quarter-tones", e.Steps)
}

// Glyph returns the display glyph for the given number of quarter-tone steps.
func Glyph(steps int) (string, error) {
	glyph, ok := glyphs[steps]
	if !ok {
		return "", &UnknownIntervalError{Steps: steps}
	}
	return glyph, nil
}

// Known reports whether steps belongs to the vocabulary.
func Known(steps int) bool {
	_, ok := glyphs[steps]
	return ok
}

// Pretty joins the glyphs of intervals with arrows, e.g. "½ → 1½ → ½".
func Pretty(intervals []int) (string, error) {
	parts := make([]string, 0, len(intervals))
	for _, steps := range intervals {
		glyph, err := Glyph(steps)
		if err != nil {
			return "", err
		}
		parts = append(parts, glyph)
	}
	return strings.Join(parts, Arrow), nil
}

// Tones converts quarter-tone steps to whole tones.
func Tones(steps int) float64 {
	return float64(steps) / StepsPerTone
}
