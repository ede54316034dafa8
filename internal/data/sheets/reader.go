// Package sheets implements the domain repositories on top of the spreadsheet
// read source. Every table has a header row that is skipped.
package sheets

import (
	"context"

	"github.com/agent-dashboard/internal/platform/tabular"
)

// TableReader downloads and decodes a sheet
type TableReader interface {
	FetchRows(ctx context.Context, sheetID string) ([]tabular.Row, error)
	FetchTrimmedRows(ctx context.Context, sheetID string) ([]tabular.Row, error)
}

// dataRows drops the header row
func dataRows(rows []tabular.Row) []tabular.Row {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}
