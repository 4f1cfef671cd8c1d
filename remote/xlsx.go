package remote

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is a local XLSX workbook acting as the remote surface,
// for setups where the shared spreadsheet is a file on a mounted
// drive. All tables of one workbook share a single open file so that
// saving one sheet never discards another's writes.
type Workbook struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens the workbook at path, creating it when absent.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err == nil {
		file, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("remote: open workbook %s: %w", path, err)
		}
		return &Workbook{path: path, file: file}, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("remote: stat workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: excelize.NewFile()}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Table returns the named worksheet as a remote table, creating the
// sheet when absent.
func (w *Workbook) Table(sheet string) (*XLSXTable, error) {
	index, err := w.file.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("remote: sheet %s: %w", sheet, err)
	}
	if index < 0 {
		if _, err := w.file.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("remote: create sheet %s: %w", sheet, err)
		}
	}
	return &XLSXTable{workbook: w, sheet: sheet}, nil
}

func (w *Workbook) save() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("remote: save workbook %s: %w", w.path, err)
	}
	return nil
}

// XLSXTable is one worksheet of a Workbook, addressable in A1
// notation. Every Update and Clear saves the workbook to disk.
type XLSXTable struct {
	workbook *Workbook
	sheet    string
}

// Name returns the worksheet name.
func (t *XLSXTable) Name() string {
	return t.sheet
}

// ReadRow returns the contents of the 1-based row n. Rows beyond the
// occupied region are empty.
func (t *XLSXTable) ReadRow(_ context.Context, n int) ([]string, error) {
	rows, err := t.workbook.file.GetRows(t.sheet)
	if err != nil {
		return nil, fmt.Errorf("remote: read sheet %s: %w", t.sheet, err)
	}
	if n < 1 || n > len(rows) {
		return nil, nil
	}
	return rows[n-1], nil
}

// Update writes rows starting at the given top-left cell and saves
// the workbook.
func (t *XLSXTable) Update(_ context.Context, startCell string, rows [][]string) error {
	col, row, err := excelize.CellNameToCoordinates(startCell)
	if err != nil {
		return fmt.Errorf("remote: start cell %s: %w", startCell, err)
	}

	for i, cells := range rows {
		for j, value := range cells {
			cell, err := excelize.CoordinatesToCellName(col+j, row+i)
			if err != nil {
				return fmt.Errorf("remote: cell (%d,%d): %w", col+j, row+i, err)
			}
			if err := t.workbook.file.SetCellStr(t.sheet, cell, value); err != nil {
				return fmt.Errorf("remote: set cell %s: %w", cell, err)
			}
		}
	}
	return t.workbook.save()
}

// Clear blanks every cell in the A1-notation range and saves the
// workbook.
func (t *XLSXTable) Clear(_ context.Context, cellRange string) error {
	start, end, ok := strings.Cut(cellRange, ":")
	if !ok {
		end = start
	}
	startCol, startRow, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return fmt.Errorf("remote: range %s: %w", cellRange, err)
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return fmt.Errorf("remote: range %s: %w", cellRange, err)
	}

	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return fmt.Errorf("remote: cell (%d,%d): %w", col, row, err)
			}
			if err := t.workbook.file.SetCellStr(t.sheet, cell, ""); err != nil {
				return fmt.Errorf("remote: clear cell %s: %w", cell, err)
			}
		}
	}
	return t.workbook.save()
}
