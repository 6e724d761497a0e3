package port

import (
	"context"

	"feedgen/internal/domain"
)

// SheetStore is a row-oriented store over named sheets. Rows and columns are
// 1-based; row 1 of a sheet is its header.
type SheetStore interface {
	// ReadRows returns every data row of sheet keyed by the header row.
	ReadRows(ctx context.Context, sheet string) ([]domain.InputRecord, error)
	// ReadTable returns every row of sheet, header included, as raw cells.
	ReadTable(ctx context.Context, sheet string) ([][]string, error)
	// WriteRows overwrites rows starting at startRow, creating the sheet if needed.
	WriteRows(ctx context.Context, sheet string, startRow int, rows [][]string) error
	// ReadCell returns a single cell, or "" when it is empty.
	ReadCell(ctx context.Context, sheet string, row, col int) (string, error)
	// ClearRows deletes startRow and every row after it.
	ClearRows(ctx context.Context, sheet string, startRow int) error
}

