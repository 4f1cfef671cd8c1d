// Package remote provides remote tabular surface implementations for
// the shopfeed sync engine: Google Sheets worksheets and local XLSX
// workbooks.
package remote
