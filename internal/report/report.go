package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/example/sigma-report/internal/sigma"
)

// Built-in report formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Table is the header row plus one data row per rule, in discovery order.
type Table struct {
	Header []string
	Rows   [][]string
}

// Build assembles records into a table without reordering or filtering.
func Build(records []sigma.Record, includeLogic bool) Table {
	t := Table{Header: sigma.Columns(includeLogic), Rows: make([][]string, 0, len(records))}
	for _, rec := range records {
		t.Rows = append(t.Rows, rec.Row(includeLogic))
	}
	return t
}

// Writer persists a table to a file.
type Writer interface {
	Format() string
	// CheckPath rejects output paths the writer cannot save to.
	CheckPath(path string) error
	// CellLimit is the longest cell, in characters, the format stores
	// intact. Zero means unlimited.
	CellLimit() int
	Write(path string, t Table) error
}

// LongCell locates a value longer than a writer's cell limit. Row is the
// 1-based data row, not counting the header.
type LongCell struct {
	Row    int
	Column string
	Length int
}

// LongCells lists every data cell longer than limit characters. A limit of
// zero or less disables the check.
func LongCells(t Table, limit int) []LongCell {
	if limit <= 0 {
		return nil
	}
	var out []LongCell
	for i, row := range t.Rows {
		for j, value := range row {
			if n := utf8.RuneCountInString(value); n > limit {
				column := ""
				if j < len(t.Header) {
					column = t.Header[j]
				}
				out = append(out, LongCell{Row: i + 1, Column: column, Length: n})
			}
		}
	}
	return out
}

// Factory builds a writer instance.
type Factory func() Writer

// Registry maps format names to writer constructors.
type Registry map[string]Factory

// DefaultRegistry contains the built-in writers.
var DefaultRegistry = Registry{
	FormatXLSX: func() Writer { return NewXLSXWriter() },
	FormatCSV:  func() Writer { return NewCSVWriter() },
}

// Writer returns the writer registered for format.
func (r Registry) Writer(format string) (Writer, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	factory, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q (available: %s)", format, strings.Join(r.Formats(), ", "))
	}
	return factory(), nil
}

// Formats lists the registered format names in sorted order.
func (r Registry) Formats() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatForPath infers the report format from the output file extension.
// Anything that is not .csv is written as a workbook.
func FormatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatXLSX
}
