package jins

import "fmt"

// MalformedRecordError reports a source record that cannot become a Jins.
type MalformedRecordError struct {
	Line   int
	Name   string
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("malformed jins record %q (line %d): %s: %s", e.Name, e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed jins record (line %d): %s: %s", e.Line, e.Field, e.Reason)
}

// DuplicateNameError reports a jins name that appears more than once.
type DuplicateNameError struct {
	Name      string
	Line      int
	FirstLine int
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate jins %q on line %d (first defined on line %d)", e.Name, e.Line, e.FirstLine)
}
