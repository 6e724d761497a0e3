package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"feedgen/internal/domain"
	"feedgen/internal/port"
)

type sheetRow struct {
	RowNum int    `db:"row_num"`
	Cells  []byte `db:"cells"`
}

type sheetStore struct {
	db *sqlx.DB
}

// NewSheetStore creates a PostgreSQL-backed SheetStore over the sheet_rows table.
func NewSheetStore(db *sqlx.DB) port.SheetStore {
	return &sheetStore{db: db}
}

func (s *sheetStore) ReadTable(ctx context.Context, sheet string) ([][]string, error) {
	var rows []sheetRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT row_num, cells FROM sheet_rows WHERE sheet = $1 ORDER BY row_num", sheet)
	if err != nil {
		return nil, fmt.Errorf("sheetStore.ReadTable: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Gaps between stored rows read back as empty rows so positions stay 1-based.
	table := make([][]string, rows[len(rows)-1].RowNum)
	for _, r := range rows {
		if r.RowNum < 1 {
			continue
		}
		var cells []string
		if err := json.Unmarshal(r.Cells, &cells); err != nil {
			return nil, fmt.Errorf("sheetStore.ReadTable: decoding row %d: %w", r.RowNum, err)
		}
		table[r.RowNum-1] = cells
	}
	return table, nil
}

func (s *sheetStore) ReadRows(ctx context.Context, sheet string) ([]domain.InputRecord, error) {
	table, err := s.ReadTable(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSheetNotFound, sheet)
	}
	return domain.RecordsFromTable(table), nil
}

func (s *sheetStore) WriteRows(ctx context.Context, sheet string, startRow int, rows [][]string) error {
	if startRow < 1 {
		return fmt.Errorf("sheetStore.WriteRows: invalid start row %d", startRow)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sheetStore.WriteRows begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	query := `INSERT INTO sheet_rows (sheet, row_num, cells, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sheet, row_num) DO UPDATE SET cells = EXCLUDED.cells, updated_at = EXCLUDED.updated_at`
	for i, row := range rows {
		if row == nil {
			row = []string{}
		}
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("sheetStore.WriteRows encode: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, sheet, startRow+i, cells, now); err != nil {
			return fmt.Errorf("sheetStore.WriteRows row %d: %w", startRow+i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sheetStore.WriteRows commit: %w", err)
	}
	return nil
}

func (s *sheetStore) ReadCell(ctx context.Context, sheet string, row, col int) (string, error) {
	var cells []byte
	err := s.db.GetContext(ctx, &cells,
		"SELECT cells FROM sheet_rows WHERE sheet = $1 AND row_num = $2", sheet, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("sheetStore.ReadCell: %w", err)
	}
	var values []string
	if err := json.Unmarshal(cells, &values); err != nil {
		return "", fmt.Errorf("sheetStore.ReadCell: decoding row %d: %w", row, err)
	}
	if col < 1 || col > len(values) {
		return "", nil
	}
	return values[col-1], nil
}

func (s *sheetStore) ClearRows(ctx context.Context, sheet string, startRow int) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM sheet_rows WHERE sheet = $1 AND row_num >= $2", sheet, startRow)
	if err != nil {
		return fmt.Errorf("sheetStore.ClearRows: %w", err)
	}
	return nil
}
