package testsupport

import (
	"testing"

	"maqamat/internal/jins"
	"maqamat/internal/maqam"
)

// StandardAjnas mirrors internal/dataset/data/ajnas.csv in quarter-tone steps.
var StandardAjnas = []jins.Jins{
	{Name: "ajam", Intervals: []int{4, 4, 2, 4}},
	{Name: "ajam_murassaa", Intervals: []int{4, 4, 4, 2}},
	{Name: "athar_kurd", Intervals: []int{2, 4, 6, 2}},
	{Name: "bayati", Intervals: []int{3, 3, 4}},
	{Name: "hijaz", Intervals: []int{2, 6, 2}},
	{Name: "hijaz_murassaa", Intervals: []int{2, 6, 2, 2}},
	{Name: "hijazkar", Intervals: []int{6, 2, 2, 6}},
	{Name: "jiharkah", Intervals: []int{4, 4, 2, 4}},
	{Name: "kurd", Intervals: []int{2, 4, 4}},
	{Name: "lami", Intervals: []int{2, 4, 4, 2}},
	{Name: "mukhalif_sharqi", Intervals: []int{3, 2}},
	{Name: "mustaar", Intervals: []int{5, 2}},
	{Name: "nahawand", Intervals: []int{4, 2, 4, 4}},
	{Name: "nahawand_murassaa", Intervals: []int{4, 2, 4, 2}},
	{Name: "nikriz", Intervals: []int{4, 2, 6, 2}},
	{Name: "rast", Intervals: []int{4, 3, 3, 4}},
	{Name: "saba", Intervals: []int{3, 3, 2, 6, 2}},
	{Name: "saba_dalanshin", Intervals: []int{3, 3, 2, 6, 2}},
	{Name: "saba_zamzam", Intervals: []int{2, 4, 2, 6, 2}},
	{Name: "sazkar", Intervals: []int{6, 1, 3, 4}},
	{Name: "sikah", Intervals: []int{3, 4}},
	{Name: "upper_ajam", Intervals: []int{4, 4, 2}},
	{Name: "upper_rast", Intervals: []int{4, 3, 3}},
}

// Registry returns a registry holding StandardAjnas.
func Registry(t testing.TB) *jins.Registry {
	t.Helper()

	reg, err := jins.NewRegistry(StandardAjnas...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

// Results assembles the embedded-style maqam rows against Registry.
func Results(t testing.TB, rows ...maqam.Row) []maqam.Result {
	t.Helper()

	return maqam.AssembleAll(rows, Registry(t))
}
