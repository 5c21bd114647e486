package maqam

import (
	"fmt"

	"maqamat/internal/combination"
	"maqamat/internal/jins"
	"maqamat/internal/scale"
)

// Field names used in FieldError.
const (
	FieldName     = "name"
	FieldTonic    = "tonic"
	FieldGhammaz1 = "ghammaz_option1"
	FieldGhammaz2 = "ghammaz_option2"
)

// Maqam is a melodic mode built from resolved combinations. It is read-only
// once assembled.
type Maqam struct {
	name     string
	tonic    jins.Jins
	ghammaz1 *jins.Jins
	ghammaz2 *jins.Jins
}

// FieldError reports a field of a maqam that failed to resolve.
type FieldError struct {
	Maqam string
	Field string
	Line  int
	Err   error
}

func (e *FieldError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("maqam %q (line %d): %s: %v", e.Maqam, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("maqam %q: %s: %v", e.Maqam, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Assemble resolves the tonic and any present ghammaz expressions. A nil
// ghammaz pointer leaves that option absent.
func Assemble(name, tonicExpr string, ghammaz1, ghammaz2 *string, reg combination.Lookuper) (*Maqam, error) {
	if name == "" {
		return nil, &FieldError{Field: FieldName, Err: fmt.Errorf("empty name")}
	}
	tonic, err := combination.Resolve(tonicExpr, reg)
	if err != nil {
		return nil, &FieldError{Maqam: name, Field: FieldTonic, Err: err}
	}
	m := &Maqam{name: name, tonic: tonic}
	if ghammaz1 != nil {
		g, err := combination.Resolve(*ghammaz1, reg)
		if err != nil {
			return nil, &FieldError{Maqam: name, Field: FieldGhammaz1, Err: err}
		}
		m.ghammaz1 = &g
	}
	if ghammaz2 != nil {
		g, err := combination.Resolve(*ghammaz2, reg)
		if err != nil {
			return nil, &FieldError{Maqam: name, Field: FieldGhammaz2, Err: err}
		}
		m.ghammaz2 = &g
	}
	return m, nil
}

// Name returns the maqam identifier.
func (m *Maqam) Name() string { return m.name }

// Tonic returns a copy of the tonic combination.
func (m *Maqam) Tonic() jins.Jins { return m.tonic.Clone() }

// GhammazOption1 returns the first alternate combination, if any.
func (m *Maqam) GhammazOption1() (jins.Jins, bool) { return optional(m.ghammaz1) }

// GhammazOption2 returns the second alternate combination, if any.
func (m *Maqam) GhammazOption2() (jins.Jins, bool) { return optional(m.ghammaz2) }

// Ghammaz returns the present ghammaz options in order.
func (m *Maqam) Ghammaz() []jins.Jins {
	out := make([]jins.Jins, 0, 2)
	for _, g := range []*jins.Jins{m.ghammaz1, m.ghammaz2} {
		if g != nil {
			out = append(out, g.Clone())
		}
	}
	return out
}

// BinaryViews encodes the tonic alone, then the tonic followed by each
// present ghammaz option, in that fixed order.
func (m *Maqam) BinaryViews() []scale.Mask {
	views := []scale.Mask{scale.Encode(m.tonic.Intervals)}
	for _, g := range m.Ghammaz() {
		views = append(views, scale.Encode(Extend(m.tonic, g)))
	}
	return views
}

// Extend concatenates the tonic intervals with a ghammaz option.
func Extend(tonic, ghammaz jins.Jins) []int {
	out := make([]int, 0, len(tonic.Intervals)+len(ghammaz.Intervals))
	out = append(out, tonic.Intervals...)
	return append(out, ghammaz.Intervals...)
}

func optional(j *jins.Jins) (jins.Jins, bool) {
	if j == nil {
		return jins.Jins{}, false
	}
	return j.Clone(), true
}
