package jins

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one raw row of the jins source.
type Record struct {
	Line      int
	Name      string
	Intervals string
}

// Source supplies raw jins records.
type Source interface {
	JinsRecords() ([]Record, error)
}

// Registry maps jins names to their interval sequences. It is never mutated
// after construction.
type Registry struct {
	entries map[string]Jins
	names   []string
}

// Load reads every record from src and builds a Registry.
func Load(src Source) (*Registry, error) {
	if src == nil {
		return nil, fmt.Errorf("load ajnas: source is nil")
	}
	records, err := src.JinsRecords()
	if err != nil {
		return nil, fmt.Errorf("load ajnas: %w", err)
	}

	reg := &Registry{entries: make(map[string]Jins, len(records))}
	firstLine := make(map[string]int, len(records))
	for _, rec := range records {
		j, err := parseRecord(rec)
		if err != nil {
			return nil, err
		}
		if line, exists := firstLine[j.Name]; exists {
			return nil, &DuplicateNameError{Name: j.Name, Line: rec.Line, FirstLine: line}
		}
		firstLine[j.Name] = rec.Line
		reg.entries[j.Name] = j
	}
	reg.index()
	return reg, nil
}

// NewRegistry builds a Registry from already parsed fragments, applying the
// same validation as Load.
func NewRegistry(ajnas ...Jins) (*Registry, error) {
	records := make([]Record, 0, len(ajnas))
	for i, j := range ajnas {
		fields := make([]string, 0, len(j.Intervals))
		for _, steps := range j.Intervals {
			fields = append(fields, strconv.Itoa(steps))
		}
		records = append(records, Record{Line: i + 1, Name: j.Name, Intervals: strings.Join(fields, " ")})
	}
	return Load(staticSource(records))
}

type staticSource []Record

func (s staticSource) JinsRecords() ([]Record, error) { return s, nil }

func parseRecord(rec Record) (Jins, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return Jins{}, &MalformedRecordError{Line: rec.Line, Field: "name", Reason: "empty"}
	}
	fields := strings.Fields(rec.Intervals)
	if len(fields) == 0 {
		return Jins{}, &MalformedRecordError{Line: rec.Line, Name: name, Field: "intervals", Reason: "empty"}
	}
	intervals := make([]int, 0, len(fields))
	for _, field := range fields {
		steps, err := strconv.Atoi(field)
		if err != nil {
			return Jins{}, &MalformedRecordError{
				Line:   rec.Line,
				Name:   name,
				Field:  "intervals",
				Reason: fmt.Sprintf("%q is not an integer", field),
			}
		}
		if steps <= 0 {
			return Jins{}, &MalformedRecordError{
				Line:   rec.Line,
				Name:   name,
				Field:  "intervals",
				Reason: fmt.Sprintf("%d is not a positive step count", steps),
			}
		}
		intervals = append(intervals, steps)
	}
	return Jins{Name: name, Intervals: intervals}, nil
}

func (r *Registry) index() {
	r.names = make([]string, 0, len(r.entries))
	for name := range r.entries {
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
}

// Lookup returns a copy of the named jins.
func (r *Registry) Lookup(name string) (Jins, bool) {
	if r == nil {
		return Jins{}, false
	}
	j, ok := r.entries[name]
	if !ok {
		return Jins{}, false
	}
	return j.Clone(), true
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// All returns copies of every registered jins sorted by name.
func (r *Registry) All() []Jins {
	if r == nil {
		return nil
	}
	out := make([]Jins, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.entries[name].Clone())
	}
	return out
}

// Len returns the number of registered ajnas.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}
