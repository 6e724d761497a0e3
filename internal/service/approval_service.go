package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"feedgen/internal/domain"
	"feedgen/internal/port"
	"feedgen/internal/sheets"
)

// ApprovalService manages the approval checkbox of generated rows.
type ApprovalService interface {
	List(ctx context.Context) ([]*domain.GenerationResult, error)
	Approve(ctx context.Context, itemIDs []string) (int, error)
	Unapprove(ctx context.Context, itemIDs []string) (int, error)
}

type approvalService struct {
	store  port.SheetStore
	sheet  string
	logger *zap.Logger
}

// NewApprovalService creates a new ApprovalService over the generated sheet.
func NewApprovalService(store port.SheetStore, generatedSheet string, logger *zap.Logger) ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &approvalService{store: store, sheet: generatedSheet, logger: logger}
}

func (s *approvalService) List(ctx context.Context) ([]*domain.GenerationResult, error) {
	return sheets.ReadResults(ctx, s.store, s.sheet)
}

func (s *approvalService) Approve(ctx context.Context, itemIDs []string) (int, error) {
	return s.setApproval(ctx, itemIDs, true)
}

func (s *approvalService) Unapprove(ctx context.Context, itemIDs []string) (int, error) {
	return s.setApproval(ctx, itemIDs, false)
}

// setApproval rewrites the approval cell of every matching row and returns how
// many rows it touched. FAILED rows have nothing to export and are never approved.
func (s *approvalService) setApproval(ctx context.Context, itemIDs []string, approved bool) (int, error) {
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		if id = strings.TrimSpace(id); id != "" {
			wanted[id] = true
		}
	}
	if len(wanted) == 0 {
		return 0, domain.ErrInvalidItemIDs
	}

	table, err := s.store.ReadTable(ctx, s.sheet)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", s.sheet, err)
	}

	updated := 0
	for i := 1; i < len(table); i++ {
		row := table[i]
		if !wanted[strings.TrimSpace(cell(row, sheets.ColItemID))] {
			continue
		}
		if approved && cell(row, sheets.ColStatus) == string(domain.GenerationStatusFailed) {
			continue
		}
		for len(row) < len(sheets.Headers) {
			row = append(row, "")
		}
		row[sheets.ColApproval-1] = sheets.FormatBool(approved)
		if err := s.store.WriteRows(ctx, s.sheet, i+1, [][]string{row}); err != nil {
			return updated, fmt.Errorf("updating row %d: %w", i+1, err)
		}
		updated++
	}
	if updated == 0 {
		return 0, domain.ErrNotFound
	}

	s.logger.Info("service.approvalService.setApproval: rows updated",
		zap.Bool("approved", approved), zap.Int("rows", updated))
	return updated, nil
}

func cell(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}
