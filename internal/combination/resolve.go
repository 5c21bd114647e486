package combination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"maqamat/internal/jins"
)

// Lookuper resolves jins names. *jins.Registry satisfies it.
type Lookuper interface {
	Lookup(name string) (jins.Jins, bool)
}

// Segment is one parsed "<name><digit?>" element of an expression.
// Overlap is zero when Explicit is false; the default depends on the
// registry and is applied by Resolve.
type Segment struct {
	Name     string
	Overlap  int
	Explicit bool
	Offset   int
}

// Segments parses expression without consulting a registry.
func Segments(expression string) ([]Segment, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &SyntaxError{Expression: expression, Reason: "empty expression"}
	}
	parsed, err := expressionParser.ParseString("", expression)
	if err != nil {
		return nil, syntaxError(expression, err)
	}

	out := make([]Segment, 0, 1+len(parsed.Tail))
	for _, seg := range parsed.segments() {
		s := Segment{Name: seg.Name, Offset: seg.Pos.Offset}
		if seg.Overlap != nil {
			if *seg.Overlap < 1 {
				return nil, &SyntaxError{
					Expression: expression,
					Offset:     seg.Pos.Offset + len(seg.Name),
					Reason:     "overlap must be at least 1",
				}
			}
			s.Overlap = *seg.Overlap
			s.Explicit = true
		}
		out = append(out, s)
	}
	return out, nil
}

// Resolve parses expression and concatenates the retained intervals of each
// segment. The result is named after the verbatim expression.
func Resolve(expression string, reg Lookuper) (jins.Jins, error) {
	if reg == nil {
		return jins.Jins{}, errors.New("resolve jins expression: registry is nil")
	}
	segments, err := Segments(expression)
	if err != nil {
		return jins.Jins{}, err
	}

	var intervals []int
	for _, seg := range segments {
		j, ok := reg.Lookup(seg.Name)
		if !ok {
			return jins.Jins{}, &UnknownJinsError{Expression: expression, Name: seg.Name}
		}
		overlap := len(j.Intervals) + 1
		if seg.Explicit {
			if seg.Overlap > overlap {
				return jins.Jins{}, &SyntaxError{
					Expression: expression,
					Offset:     seg.Offset + len(seg.Name),
					Reason:     fmt.Sprintf("overlap %d exceeds the %d notes of %s", seg.Overlap, overlap, seg.Name),
				}
			}
			overlap = seg.Overlap
		}
		intervals = append(intervals, j.Intervals[:overlap-1]...)
	}
	return jins.Jins{Name: expression, Intervals: intervals}, nil
}

// Label strips overlap digits from every segment, e.g. "nikriz3 + hijazkar"
// becomes ["nikriz", "hijazkar"]. Unparseable input is split on the separator
// as-is so callers rendering labels never fail.
func Label(expression string) []string {
	segments, err := Segments(expression)
	if err != nil {
		return strings.Split(expression, Separator)
	}
	names := make([]string, 0, len(segments))
	for _, seg := range segments {
		names = append(names, seg.Name)
	}
	return names
}

func syntaxError(expression string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &SyntaxError{
			Expression: expression,
			Offset:     perr.Position().Offset,
			Reason:     perr.Message(),
		}
	}
	return &SyntaxError{Expression: expression, Reason: err.Error()}
}
