package site

import (
	"html/template"
	"strconv"

	"maqamat/internal/interval"
	"maqamat/internal/locale"
	"maqamat/internal/scale"
)

// baseFuncs are the language-independent template helpers. t and jinsLabel
// are placeholders replaced per language by localizedFuncs.
func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"glyph":  interval.Glyph,
		"pretty": interval.Pretty,
		"binary": func(intervals []int) string {
			return scale.Encode(intervals).String()
		},
		"tones": func(steps int) string {
			return strconv.FormatFloat(interval.Tones(steps), 'f', -1, 64)
		},
		"inc":       func(i int) int { return i + 1 },
		"t":         func(key string, args ...any) string { return key },
		"jinsLabel": func(expression string) string { return expression },
	}
}

func localizedFuncs(l *locale.Localizer) template.FuncMap {
	return template.FuncMap{
		"t":         l.T,
		"jinsLabel": l.Label,
	}
}
