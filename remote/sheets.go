package remote

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Credentials selects how the Sheets client authenticates. Exactly
// one field should be set; the value is resolved once at run start
// and injected here rather than looked up ambiently.
type Credentials struct {
	// File is a path to a service account JSON key file.
	File string
	// JSON is the raw service account key, typically sourced from an
	// environment variable by the caller.
	JSON string
}

// NewSheetsService builds a Sheets API client scoped to spreadsheet
// access.
func NewSheetsService(ctx context.Context, creds Credentials) (*sheets.Service, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case creds.JSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(creds.JSON)))
	case creds.File != "":
		opts = append(opts, option.WithCredentialsFile(creds.File))
	default:
		return nil, fmt.Errorf("remote: no sheets credentials configured")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("remote: create sheets service: %w", err)
	}
	return service, nil
}

// SheetsTable is a worksheet of a Google Sheets spreadsheet.
type SheetsTable struct {
	service       *sheets.Service
	spreadsheetID string
	sheet         string
}

// NewSheetsTable create new SheetsTable.
func NewSheetsTable(service *sheets.Service, spreadsheetID, sheet string) *SheetsTable {
	return &SheetsTable{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
	}
}

// Name returns the worksheet name.
func (t *SheetsTable) Name() string {
	return t.sheet
}

// ReadRow returns the contents of the 1-based row n. Rows beyond the
// occupied region are empty.
func (t *SheetsTable) ReadRow(ctx context.Context, n int) ([]string, error) {
	readRange := fmt.Sprintf("%s!%d:%d", t.sheet, n, n)
	resp, err := t.service.Spreadsheets.Values.Get(t.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("remote: read %s: %w", readRange, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	row := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		row = append(row, fmt.Sprint(cell))
	}
	return row, nil
}

// Update writes rows starting at the given top-left cell as raw
// values.
func (t *SheetsTable) Update(ctx context.Context, startCell string, rows [][]string) error {
	values := make([][]any, 0, len(rows))
	for _, cells := range rows {
		row := make([]any, 0, len(cells))
		for _, cell := range cells {
			row = append(row, cell)
		}
		values = append(values, row)
	}

	writeRange := fmt.Sprintf("%s!%s", t.sheet, startCell)
	_, err := t.service.Spreadsheets.Values.
		Update(t.spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("remote: update %s: %w", writeRange, err)
	}
	return nil
}

// Clear blanks every cell in the A1-notation range in a single call.
func (t *SheetsTable) Clear(ctx context.Context, cellRange string) error {
	clearRange := fmt.Sprintf("%s!%s", t.sheet, cellRange)
	_, err := t.service.Spreadsheets.Values.
		Clear(t.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("remote: clear %s: %w", clearRange, err)
	}
	return nil
}
