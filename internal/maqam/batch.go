package maqam

import (
	"errors"
	"fmt"
	"strings"

	"maqamat/internal/combination"
)

// Row is one raw record of the maqam source. Empty ghammaz cells mean the
// option is absent.
type Row struct {
	Line     int
	Name     string
	Tonic    string
	Ghammaz1 string
	Ghammaz2 string
}

// RowSource supplies raw maqam rows.
type RowSource interface {
	MaqamRows() ([]Row, error)
}

// Result is the outcome of assembling one row: either Maqam or Err is set.
type Result struct {
	Row   Row
	Maqam *Maqam
	Err   *FieldError
}

// OK reports whether the row assembled successfully.
func (r Result) OK() bool { return r.Err == nil && r.Maqam != nil }

// AssembleAll assembles every row independently. A failing row never stops
// the remaining rows from being processed.
func AssembleAll(rows []Row, reg combination.Lookuper) []Result {
	results := make([]Result, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if first, dup := seen[name]; dup && name != "" {
			results = append(results, Result{Row: row, Err: &FieldError{
				Maqam: name,
				Field: FieldName,
				Line:  row.Line,
				Err:   fmt.Errorf("duplicate maqam (first defined on line %d)", first),
			}})
			continue
		}
		m, err := Assemble(name, row.Tonic, cell(row.Ghammaz1), cell(row.Ghammaz2), reg)
		if err != nil {
			fieldErr := asFieldError(name, err)
			fieldErr.Line = row.Line
			results = append(results, Result{Row: row, Err: fieldErr})
			continue
		}
		seen[name] = row.Line
		results = append(results, Result{Row: row, Maqam: m})
	}
	return results
}

// Succeeded returns the assembled maqamat in input order.
func Succeeded(results []Result) []*Maqam {
	out := make([]*Maqam, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Maqam)
		}
	}
	return out
}

// Failed returns the failing results in input order.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

func cell(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func asFieldError(name string, err error) *FieldError {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe
	}
	return &FieldError{Maqam: name, Err: err}
}
