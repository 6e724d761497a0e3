// Package export builds the data-dependent export table from approved rows.
package export

import (
	"time"

	"feedgen/internal/domain"
)

// Fixed leading columns of every export.
const (
	ColumnID           = "id"
	ColumnTitle        = "title"
	ColumnDescription  = "description"
	ColumnLastModified = "last_modified"

	// DefaultInventedPrefix marks columns for attributes absent from every input row.
	DefaultInventedPrefix = "new_"
)

// Builder computes export schemas and rows.
type Builder struct {
	inventedPrefix string
}

// NewBuilder creates a Builder. An empty prefix falls back to DefaultInventedPrefix.
func NewBuilder(inventedPrefix string) *Builder {
	if inventedPrefix == "" {
		inventedPrefix = DefaultInventedPrefix
	}
	return &Builder{inventedPrefix: inventedPrefix}
}

// BuildSchema unions the gap/invented attribute keys of rows in first-seen order
// and partitions them: a key is a gap key when at least one row's original input
// has it, and invented only when no row's input does. This cross-row partition
// overrides the per-row classification.
func (b *Builder) BuildSchema(rows []*domain.GenerationResult) domain.ExportSchema {
	var universe []string
	seen := map[string]bool{}
	for _, r := range rows {
		for _, k := range r.GapAttributes.Keys() {
			nk := domain.NormalizeKey(k)
			if seen[nk] {
				continue
			}
			seen[nk] = true
			universe = append(universe, k)
		}
	}

	schema := domain.ExportSchema{
		Columns:      []string{ColumnID, ColumnTitle, ColumnDescription},
		GapKeys:      []string{},
		InventedKeys: []string{},
	}
	for _, k := range universe {
		if inAnyInput(rows, k) {
			schema.GapKeys = append(schema.GapKeys, k)
		} else {
			schema.InventedKeys = append(schema.InventedKeys, k)
		}
	}
	schema.Columns = append(schema.Columns, schema.GapKeys...)
	for _, k := range schema.InventedKeys {
		schema.Columns = append(schema.Columns, b.inventedPrefix+k)
	}
	return schema
}

// Rows renders one cell slice per row following the schema's column order.
func (b *Builder) Rows(schema domain.ExportSchema, rows []*domain.GenerationResult) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		values := attributeValues(r)
		cells := make([]string, 0, len(schema.Columns))
		cells = append(cells, r.ItemID, r.GeneratedTitle, r.GeneratedDescription)
		for _, k := range schema.GapKeys {
			cells = append(cells, values[domain.NormalizeKey(k)])
		}
		for _, k := range schema.InventedKeys {
			cells = append(cells, values[domain.NormalizeKey(k)])
		}
		out = append(out, cells)
	}
	return out
}

// Table returns the header and data rows, each prefixed with the ISO-8601 export time.
func (b *Builder) Table(rows []*domain.GenerationResult, exportedAt time.Time) (domain.ExportSchema, [][]string) {
	schema := b.BuildSchema(rows)
	stamp := exportedAt.UTC().Format(time.RFC3339)

	table := make([][]string, 0, len(rows)+1)
	table = append(table, append([]string{ColumnLastModified}, schema.Columns...))
	for _, cells := range b.Rows(schema, rows) {
		table = append(table, append([]string{stamp}, cells...))
	}
	return schema, table
}

func inAnyInput(rows []*domain.GenerationResult, key string) bool {
	for _, r := range rows {
		if r.Input.Has(key) {
			return true
		}
	}
	return false
}

func attributeValues(r *domain.GenerationResult) map[string]string {
	values := make(map[string]string, r.GapAttributes.Len())
	for _, k := range r.GapAttributes.Keys() {
		nk := domain.NormalizeKey(k)
		if _, dup := values[nk]; dup {
			continue
		}
		v, _ := r.GapAttributes.Get(k)
		values[nk] = v
	}
	return values
}
