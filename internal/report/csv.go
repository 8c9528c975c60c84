package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
)

// CSVWriter writes the table as RFC 4180 CSV.
type CSVWriter struct{}

// NewCSVWriter returns a CSV writer.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Format implements Writer.
func (w *CSVWriter) Format() string {
	return FormatCSV
}

// CheckPath implements Writer. Any path is accepted.
func (w *CSVWriter) CheckPath(path string) error {
	return nil
}

// CellLimit implements Writer.
func (w *CSVWriter) CellLimit() int {
	return 0
}

// Write implements Writer.
func (w *CSVWriter) Write(path string, t Table) error {
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(t.Header); err != nil {
		file.Close()
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
