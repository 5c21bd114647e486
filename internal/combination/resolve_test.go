package combination_test

import (
	"errors"
	"slices"
	"testing"

	"maqamat/internal/combination"
	"maqamat/internal/testsupport"
)

func TestResolve(t *testing.T) {
	reg := testsupport.Registry(t)

	tests := []struct {
		expression string
		want       []int
	}{
		{"hijaz", []int{2, 6, 2}},
		{"saba3 + hijaz", []int{3, 3, 2, 6, 2}},
		{"ajam3 + kurd + nahawand3", []int{4, 4, 2, 4, 4, 4, 2}},
		{"nikriz3 + hijazkar", []int{4, 2, 6, 2, 2, 6}},
		{"rast + sikah2", []int{4, 3, 3, 4, 3}},
		{"sikah1 + hijaz", []int{2, 6, 2}},
		{"hijaz4", []int{2, 6, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := combination.Resolve(tt.expression, reg)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if got.Name != tt.expression {
				t.Fatalf("Name = %q, want verbatim %q", got.Name, tt.expression)
			}
			if !slices.Equal(got.Intervals, tt.want) {
				t.Fatalf("Intervals = %v, want %v", got.Intervals, tt.want)
			}
		})
	}
}

func TestResolveSingleSegmentReproducesEveryJins(t *testing.T) {
	reg := testsupport.Registry(t)
	for _, j := range reg.All() {
		got, err := combination.Resolve(j.Name, reg)
		if err != nil {
			t.Fatalf("Resolve(%q) returned error: %v", j.Name, err)
		}
		if !got.Equal(j) {
			t.Fatalf("Resolve(%q) = %v, want %v", j.Name, got, j)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	reg := testsupport.Registry(t)
	const expression = "ajam3 + kurd + nahawand3"

	first, err := combination.Resolve(expression, reg)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	second, err := combination.Resolve(expression, reg)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}

	first.Intervals[0] = 42
	third, _ := combination.Resolve(expression, reg)
	if third.Intervals[0] != 4 {
		t.Fatal("mutating a result leaked into the registry")
	}
}

func TestResolveUnknownJins(t *testing.T) {
	reg := testsupport.Registry(t)

	_, err := combination.Resolve("saba3 + zanjaran", reg)
	var unknown *combination.UnknownJinsError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownJinsError, got %v", err)
	}
	if unknown.Name != "zanjaran" {
		t.Fatalf("Name = %q, want zanjaran", unknown.Name)
	}
}

func TestResolveSyntaxErrors(t *testing.T) {
	reg := testsupport.Registry(t)

	tests := []struct {
		name       string
		expression string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"trailing separator", "hijaz + "},
		{"leading separator", " + hijaz"},
		{"empty middle segment", "hijaz +  + kurd"},
		{"separator without spaces", "hijaz+kurd"},
		{"double space separator", "hijaz  + kurd"},
		{"multi digit suffix", "nikriz34 + hijaz"},
		{"non digit suffix", "hijaz! + kurd"},
		{"uppercase", "Hijaz"},
		{"digit only", "3"},
		{"zero overlap", "hijaz0 + kurd"},
		{"overlap beyond notes", "sikah4 + kurd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := combination.Resolve(tt.expression, reg)
			var syntax *combination.SyntaxError
			if !errors.As(err, &syntax) {
				t.Fatalf("expected SyntaxError for %q, got %v", tt.expression, err)
			}
			if syntax.Expression != tt.expression {
				t.Fatalf("Expression = %q, want %q", syntax.Expression, tt.expression)
			}
		})
	}
}

func TestResolveRequiresRegistry(t *testing.T) {
	if _, err := combination.Resolve("hijaz", nil); err == nil {
		t.Fatal("expected error for nil registry")
	}
}

func TestSegments(t *testing.T) {
	segments, err := combination.Segments("ajam3 + kurd + nahawand3")
	if err != nil {
		t.Fatalf("Segments returned error: %v", err)
	}
	want := []combination.Segment{
		{Name: "ajam", Overlap: 3, Explicit: true, Offset: 0},
		{Name: "kurd", Offset: 8},
		{Name: "nahawand", Overlap: 3, Explicit: true, Offset: 15},
	}
	if !slices.Equal(segments, want) {
		t.Fatalf("Segments = %+v, want %+v", segments, want)
	}
}

func TestLabel(t *testing.T) {
	if got := combination.Label("nikriz3 + hijazkar"); !slices.Equal(got, []string{"nikriz", "hijazkar"}) {
		t.Fatalf("Label = %v", got)
	}
	if got := combination.Label("Broken+Input"); !slices.Equal(got, []string{"Broken+Input"}) {
		t.Fatalf("Label fallback = %v", got)
	}
}
