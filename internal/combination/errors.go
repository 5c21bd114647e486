package combination

import "fmt"

// UnknownJinsError reports a segment naming a jins absent from the registry.
type UnknownJinsError struct {
	Expression string
	Name       string
}

func (e *UnknownJinsError) Error() string {
	return fmt.Sprintf("unknown jins %q in %q", e.Name, e.Expression)
}

// SyntaxError reports a malformed expression. Offset is the byte offset of
// the offending token within Expression.
type SyntaxError struct {
	Expression string
	Offset     int
	Reason     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid jins expression %q at offset %d: %s", e.Expression, e.Offset, e.Reason)
}
