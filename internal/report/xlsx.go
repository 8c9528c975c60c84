package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var workbookExts = map[string]bool{".xlsx": true, ".xlsm": true, ".xltx": true, ".xltm": true}

// XLSXWriter writes the table to the first sheet of a new workbook with a
// bold header row.
type XLSXWriter struct{}

// NewXLSXWriter returns a workbook writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Format implements Writer.
func (w *XLSXWriter) Format() string {
	return FormatXLSX
}

// CheckPath implements Writer. excelize only saves Office Open XML
// workbook extensions.
func (w *XLSXWriter) CheckPath(path string) error {
	if !workbookExts[strings.ToLower(filepath.Ext(path))] {
		return fmt.Errorf("output path (%s) must end in .xlsx, .xlsm, .xltx or .xltm for xlsx reports", path)
	}
	return nil
}

// CellLimit implements Writer. Longer strings are cut by excelize.
func (w *XLSXWriter) CellLimit() int {
	return excelize.TotalCellChars
}

// Write implements Writer.
func (w *XLSXWriter) Write(path string, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := setRow(f, sheet, 1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if len(t.Header) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}
