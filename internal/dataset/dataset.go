package dataset

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"maqamat/internal/jins"
	"maqamat/internal/maqam"
)

// File names inside a data directory.
const (
	AjnasFile   = "ajnas.csv"
	MaqamatFile = "maqamat.csv"
)

//go:embed data/*.csv
var embedded embed.FS

// Source reads both tables from a filesystem. It satisfies jins.Source and
// maqam.RowSource.
type Source struct {
	fsys  fs.FS
	label string
}

// Embedded returns the source compiled into the binary.
func Embedded() *Source {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("dataset: embedded data missing: %v", err))
	}
	return &Source{fsys: sub, label: "embedded"}
}

// Dir returns a source reading from dir. An empty dir selects the embedded
// tables.
func Dir(dir string) *Source {
	if strings.TrimSpace(dir) == "" {
		return Embedded()
	}
	return &Source{fsys: os.DirFS(dir), label: dir}
}

// FS returns a source backed by an arbitrary filesystem.
func FS(fsys fs.FS, label string) *Source {
	return &Source{fsys: fsys, label: label}
}

// Label describes where the tables are read from.
func (s *Source) Label() string { return s.label }

// JinsRecords reads the jins table.
func (s *Source) JinsRecords() ([]jins.Record, error) {
	rows, err := s.read(AjnasFile, []string{"name", "intervals"})
	if err != nil {
		return nil, err
	}
	records := make([]jins.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, jins.Record{
			Line:      row.line,
			Name:      row.get("name"),
			Intervals: row.get("intervals"),
		})
	}
	return records, nil
}

// MaqamRows reads the maqam table.
func (s *Source) MaqamRows() ([]maqam.Row, error) {
	rows, err := s.read(MaqamatFile, []string{"name", "tonic"})
	if err != nil {
		return nil, err
	}
	out := make([]maqam.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, maqam.Row{
			Line:     row.line,
			Name:     row.get("name"),
			Tonic:    row.get("tonic"),
			Ghammaz1: row.get("ghammaz_option1"),
			Ghammaz2: row.get("ghammaz_option2"),
		})
	}
	return out, nil
}

type row struct {
	line    int
	columns map[string]int
	cells   []string
}

func (r row) get(column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

func (s *Source) read(name string, required []string) ([]row, error) {
	file, err := s.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s (%s): %w", name, s.label, err)
	}
	defer file.Close()

	rows, err := parse(file, required)
	if err != nil {
		return nil, fmt.Errorf("read %s (%s): %w", name, s.label, err)
	}
	return rows, nil
}

func parse(r io.Reader, required []string) ([]row, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var rows []row
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		if blank(cells) {
			continue
		}
		rows = append(rows, row{line: line, columns: columns, cells: cells})
	}
	return rows, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
