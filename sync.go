package shopfeed

import (
	"context"
	"fmt"
)

// RemoteTable is a named remote tabular surface: a header row plus a
// data region addressed in A1 notation. Implementations live in the
// remote package (Google Sheets, local XLSX workbooks). The engine
// assumes a single writer; concurrent syncs against one table must be
// serialized by the caller.
type RemoteTable interface {
	// Name returns the table name for error context.
	Name() string
	// ReadRow returns the contents of the 1-based row n. A row beyond
	// the occupied region is returned as empty.
	ReadRow(ctx context.Context, n int) ([]string, error)
	// Update writes rows starting at the top-left cell given in A1
	// notation, overwriting existing cell contents.
	Update(ctx context.Context, startCell string, rows [][]string) error
	// Clear blanks every cell in the A1-notation range.
	Clear(ctx context.Context, cellRange string) error
}

// SyncDataset reconciles a remote table to exactly mirror the dataset
// (replace semantics) while preserving a header row written at most
// once:
//
//  1. If the table's first row is empty, write the column header.
//  2. Clear the occupied data range, rows 2..len+1 by the schema's
//     column count, in a single operation.
//  3. Write all data rows starting at A2.
//
// An empty dataset fails with ErrEmptyDataset before any range math.
// Remote failures wrap ErrRemoteSync; the local durable append has
// already completed by the time this runs and is never rolled back.
func SyncDataset(ctx context.Context, dataset *Dataset, table RemoteTable) error {
	if dataset.Len() == 0 {
		return fmt.Errorf("%w: refusing to sync %q", ErrEmptyDataset, dataset.Name())
	}

	firstRow, err := table.ReadRow(ctx, 1)
	if err != nil {
		return syncError(table, "read header row", err)
	}
	if emptyRow(firstRow) {
		if err := table.Update(ctx, "A1", [][]string{dataset.Header()}); err != nil {
			return syncError(table, "write header row", err)
		}
	}

	clearRange := dataRange(dataset.Len(), len(dataset.Header()))
	if err := table.Clear(ctx, clearRange); err != nil {
		return syncError(table, "clear "+clearRange, err)
	}

	rows := make([][]string, 0, dataset.Len())
	for _, record := range dataset.Records() {
		rows = append(rows, record)
	}
	if err := table.Update(ctx, "A2", rows); err != nil {
		return syncError(table, "write data rows", err)
	}
	return nil
}

// dataRange computes the A1-notation range occupied by a data region
// of the given row and column counts, starting below the header row.
func dataRange(rows, columns int) string {
	return fmt.Sprintf("A2:%s%d", ColumnLabel(columns), rows+1)
}

// ColumnLabel converts a 1-based column index to its spreadsheet
// letter label using bijective base-26 encoding: 1 is A, 26 is Z,
// 27 is AA. Valid for arbitrary column counts.
func ColumnLabel(n int) string {
	var label []byte
	for n > 0 {
		n--
		label = append([]byte{byte('A' + n%26)}, label...)
		n /= 26
	}
	return string(label)
}

// emptyRow reports whether every cell of the row is blank.
func emptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// syncError wraps a remote surface failure with the table and
// operation that hit it.
func syncError(table RemoteTable, operation string, err error) error {
	return fmt.Errorf("%w: table %q: %s: %w", ErrRemoteSync, table.Name(), operation, err)
}
