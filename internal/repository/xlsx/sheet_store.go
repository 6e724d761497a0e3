// Package xlsx implements port.SheetStore on a local Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/xuri/excelize/v2"

	"feedgen/internal/domain"
	"feedgen/internal/port"
)

const defaultSheet = "Sheet1"

// SheetStore keeps sheets in a single workbook file. Every write is saved to disk
// before it returns.
type SheetStore struct {
	mu   sync.Mutex
	path string
}

var _ port.SheetStore = (*SheetStore)(nil)

// NewSheetStore creates a store over the workbook at path. The file is created on first write.
func NewSheetStore(path string) *SheetStore {
	return &SheetStore{path: path}
}

// open returns the workbook, or a new empty one when the file does not exist yet.
func (s *SheetStore) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(s.path)
	if err == nil {
		return f, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), false, nil
	}
	return nil, false, fmt.Errorf("opening workbook %s: %w", s.path, err)
}

func hasSheet(f *excelize.File, sheet string) bool {
	idx, err := f.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

func (s *SheetStore) ReadTable(_ context.Context, sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if !exists || !hasSheet(f, sheet) {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (s *SheetStore) ReadRows(ctx context.Context, sheet string) ([]domain.InputRecord, error) {
	table, err := s.ReadTable(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSheetNotFound, sheet)
	}
	return domain.RecordsFromTable(table), nil
}

func (s *SheetStore) WriteRows(_ context.Context, sheet string, startRow int, rows [][]string) error {
	if startRow < 1 {
		return fmt.Errorf("xlsx.WriteRows: invalid start row %d", startRow)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists, err := s.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if !hasSheet(f, sheet) {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
		if !exists && sheet != defaultSheet {
			if err := f.DeleteSheet(defaultSheet); err != nil {
				return fmt.Errorf("removing default sheet: %w", err)
			}
		}
	}

	existing, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	for i, row := range rows {
		rowNum := startRow + i
		// Pad with blanks so cells left over from a longer previous row are cleared.
		width := len(row)
		if rowNum-1 < len(existing) && len(existing[rowNum-1]) > width {
			width = len(existing[rowNum-1])
		}
		values := make([]interface{}, width)
		for c := range values {
			values[c] = ""
			if c < len(row) {
				values[c] = row[c]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", rowNum, sheet, err)
		}
	}

	return s.save(f, exists)
}

func (s *SheetStore) ReadCell(_ context.Context, sheet string, row, col int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists, err := s.open()
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if !exists || !hasSheet(f, sheet) {
		return "", nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return f.GetCellValue(sheet, cell)
}

func (s *SheetStore) ClearRows(_ context.Context, sheet string, startRow int) error {
	if startRow < 1 {
		startRow = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists, err := s.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if !exists || !hasSheet(f, sheet) {
		return nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	for r := len(rows); r >= startRow; r-- {
		if err := f.RemoveRow(sheet, r); err != nil {
			return fmt.Errorf("removing row %d of %s: %w", r, sheet, err)
		}
	}
	return s.save(f, exists)
}

func (s *SheetStore) save(f *excelize.File, exists bool) error {
	var err error
	if exists {
		err = f.Save()
	} else {
		err = f.SaveAs(s.path)
	}
	if err != nil {
		return fmt.Errorf("saving workbook %s: %w", s.path, err)
	}
	return nil
}

