// Package sheets maps generation results to and from rows of the generated sheet.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"feedgen/internal/domain"
	"feedgen/internal/port"
)

// Column positions in the generated sheet, 1-based.
const (
	ColApproval = iota + 1
	ColStatus
	ColItemID
	ColTitle
	ColGeneratedTitle
	ColDescription
	ColGeneratedDescription
	ColCategory
	ColOriginalTemplate
	ColGeneratedTemplate
	ColScore
	ColDescriptionScore
	ColDescriptionReasoning
	ColTitleChanged
	ColAddedAttributes
	ColRemovedAttributes
	ColNewWords
	ColRemovedWords
	ColGapAttributes
	ColProcessedAt
	ColDiagnostic
	ColInput
)

// Headers is the header row of the generated sheet.
var Headers = []string{
	"Approval",
	"Status",
	"Item ID",
	"Title",
	"Generated Title",
	"Description",
	"Generated Description",
	"Generated Category",
	"Original Title Template",
	"Generated Title Template",
	"Score",
	"Description Score",
	"Description Reasoning",
	"Title Changed",
	"Added Attributes",
	"Removed Attributes",
	"Introduced Words",
	"Removed Words",
	"Gap Attributes",
	"Processed At",
	"Full Response (debug)",
	"Original Input Data",
}

// ResultToRow encodes r as a generated-sheet row.
func ResultToRow(r *domain.GenerationResult) ([]string, error) {
	gap, err := json.Marshal(r.GapAttributes)
	if err != nil {
		return nil, fmt.Errorf("encoding gap attributes: %w", err)
	}
	input, err := json.Marshal(r.Input)
	if err != nil {
		return nil, fmt.Errorf("encoding input record: %w", err)
	}
	lists := make([]string, 4)
	for i, l := range [][]string{r.AddedAttributes, r.RemovedAttributes, r.NewWordsAdded, r.WordsRemoved} {
		if lists[i], err = formatList(l); err != nil {
			return nil, fmt.Errorf("encoding attribute lists: %w", err)
		}
	}

	processedAt := ""
	if !r.ProcessedAt.IsZero() {
		processedAt = r.ProcessedAt.UTC().Format(time.RFC3339)
	}

	return []string{
		FormatBool(r.Approved),
		string(r.Status),
		r.ItemID,
		r.OriginalTitle,
		r.GeneratedTitle,
		r.OriginalDescription,
		r.GeneratedDescription,
		r.Category,
		r.OriginalTemplate,
		r.GeneratedTemplate,
		formatFloat(r.Score),
		formatFloat(r.DescriptionScore),
		r.DescriptionReasoning,
		FormatBool(r.TitleChanged),
		lists[0],
		lists[1],
		lists[2],
		lists[3],
		string(gap),
		processedAt,
		r.Diagnostic,
		string(input),
	}, nil
}

// RowToResult decodes a generated-sheet row. Missing trailing cells read as empty.
func RowToResult(row []string) (*domain.GenerationResult, error) {
	cell := func(col int) string {
		if col-1 < len(row) {
			return row[col-1]
		}
		return ""
	}

	r := &domain.GenerationResult{
		Approved:             ParseBool(cell(ColApproval)),
		Status:               domain.GenerationStatus(strings.TrimSpace(cell(ColStatus))),
		ItemID:               cell(ColItemID),
		OriginalTitle:        cell(ColTitle),
		GeneratedTitle:       cell(ColGeneratedTitle),
		OriginalDescription:  cell(ColDescription),
		GeneratedDescription: cell(ColGeneratedDescription),
		Category:             cell(ColCategory),
		OriginalTemplate:     cell(ColOriginalTemplate),
		GeneratedTemplate:    cell(ColGeneratedTemplate),
		DescriptionReasoning: cell(ColDescriptionReasoning),
		TitleChanged:         ParseBool(cell(ColTitleChanged)),
		Diagnostic:           cell(ColDiagnostic),
	}

	if s, ok := domain.ValidGenerationStatuses[string(r.Status)]; ok {
		r.Status = s
	} else if r.Status != "" {
		return nil, fmt.Errorf("item %s: unknown status %q", r.ItemID, r.Status)
	}

	var err error
	if r.Score, err = parseFloat(cell(ColScore)); err != nil {
		return nil, fmt.Errorf("item %s: score: %w", r.ItemID, err)
	}
	if r.DescriptionScore, err = parseFloat(cell(ColDescriptionScore)); err != nil {
		return nil, fmt.Errorf("item %s: description score: %w", r.ItemID, err)
	}
	for _, l := range []struct {
		col int
		dst *[]string
	}{
		{ColAddedAttributes, &r.AddedAttributes},
		{ColRemovedAttributes, &r.RemovedAttributes},
		{ColNewWords, &r.NewWordsAdded},
		{ColRemovedWords, &r.WordsRemoved},
	} {
		if *l.dst, err = parseList(cell(l.col)); err != nil {
			return nil, fmt.Errorf("item %s: %s: %w", r.ItemID, Headers[l.col-1], err)
		}
	}
	if v := strings.TrimSpace(cell(ColProcessedAt)); v != "" {
		if r.ProcessedAt, err = time.Parse(time.RFC3339, v); err != nil {
			return nil, fmt.Errorf("item %s: processed at: %w", r.ItemID, err)
		}
	}
	if v := strings.TrimSpace(cell(ColGapAttributes)); v != "" {
		if err := json.Unmarshal([]byte(v), &r.GapAttributes); err != nil {
			return nil, fmt.Errorf("item %s: gap attributes: %w", r.ItemID, err)
		}
	}
	if v := strings.TrimSpace(cell(ColInput)); v != "" {
		if err := json.Unmarshal([]byte(v), &r.Input); err != nil {
			return nil, fmt.Errorf("item %s: input record: %w", r.ItemID, err)
		}
	}
	return r, nil
}

// ReadResults decodes every data row of the generated sheet.
func ReadResults(ctx context.Context, store port.SheetStore, sheet string) ([]*domain.GenerationResult, error) {
	table, err := store.ReadTable(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if len(table) <= 1 {
		return nil, nil
	}
	results := make([]*domain.GenerationResult, 0, len(table)-1)
	for _, row := range table[1:] {
		r, err := RowToResult(row)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// AppendResults writes results after the last row of the generated sheet, writing
// the header first when the sheet is empty.
func AppendResults(ctx context.Context, store port.SheetStore, sheet string, results []*domain.GenerationResult) error {
	table, err := store.ReadTable(ctx, sheet)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(results)+1)
	startRow := len(table) + 1
	if len(table) == 0 {
		rows = append(rows, Headers)
		startRow = 1
	}
	for _, r := range results {
		row, err := ResultToRow(r)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}
	return store.WriteRows(ctx, sheet, startRow, rows)
}

// ReplaceSheet clears sheet and writes table from the first row.
func ReplaceSheet(ctx context.Context, store port.SheetStore, sheet string, table [][]string) error {
	if err := store.ClearRows(ctx, sheet, 1); err != nil {
		return fmt.Errorf("clearing %s: %w", sheet, err)
	}
	if len(table) == 0 {
		return nil
	}
	if err := store.WriteRows(ctx, sheet, 1, table); err != nil {
		return fmt.Errorf("writing %s: %w", sheet, err)
	}
	return nil
}

// FormatBool renders a checkbox cell.
func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// ParseBool reads a checkbox cell.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "x":
		return true
	}
	return false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}

// formatList encodes a list as a JSON array so items may contain commas. An
// empty list is an empty cell.
func formatList(items []string) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// parseList reads a JSON array cell. Cells edited by hand as plain
// comma-separated text are split on commas.
func parseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out, nil
}
