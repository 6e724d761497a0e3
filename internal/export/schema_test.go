package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgen/internal/domain"
)

func result(id string, input domain.InputRecord, attrs ...string) *domain.GenerationResult {
	m := domain.NewAttributeMap()
	for i := 0; i+1 < len(attrs); i += 2 {
		m.Set(attrs[i], attrs[i+1])
	}
	return &domain.GenerationResult{
		ItemID:               id,
		Approved:             true,
		GeneratedTitle:       "title " + id,
		GeneratedDescription: "description " + id,
		GapAttributes:        m,
		Input:                input,
	}
}

func TestBuildSchema_GapAndInvented(t *testing.T) {
	row1 := result("1", domain.NewInputRecord([]string{"id", "color"}, []string{"1", ""}), "color", "Red")
	row2 := result("2", domain.NewInputRecord([]string{"id"}, []string{"2"}), "material", "Cotton")

	schema := NewBuilder("").BuildSchema([]*domain.GenerationResult{row1, row2})

	assert.Equal(t, []string{"id", "title", "description", "color", "new_material"}, schema.Columns)
	assert.Equal(t, []string{"color"}, schema.GapKeys)
	assert.Equal(t, []string{"material"}, schema.InventedKeys)
}

func TestBuildSchema_CrossRowReclassification(t *testing.T) {
	// size is invented in row 1 but present in row 2's input.
	row1 := result("1", domain.NewInputRecord([]string{"id"}, []string{"1"}), "size", "10", "pattern", "Striped")
	row2 := result("2", domain.NewInputRecord([]string{"id", "Size"}, []string{"2", ""}), "size", "11")

	schema := NewBuilder("x_").BuildSchema([]*domain.GenerationResult{row1, row2})

	assert.Equal(t, []string{"size"}, schema.GapKeys)
	assert.Equal(t, []string{"pattern"}, schema.InventedKeys)
	assert.Equal(t, []string{"id", "title", "description", "size", "x_pattern"}, schema.Columns)
	assert.NotContains(t, schema.Columns, "x_size")
}

func TestBuildSchema_FirstSeenOrderAndSpelling(t *testing.T) {
	empty := domain.NewInputRecord(nil, nil)
	row1 := result("1", empty, "Fit", "Slim", "Color", "Red")
	row2 := result("2", empty, "color", "Blue", "Material", "Wool")

	b := NewBuilder("")
	rows := []*domain.GenerationResult{row1, row2}
	first := b.BuildSchema(rows)
	second := b.BuildSchema(rows)

	assert.Equal(t, []string{"Fit", "Color", "Material"}, first.InventedKeys)
	assert.Equal(t, first, second)

	cells := b.Rows(first, rows)
	require.Len(t, cells, 2)
	assert.Equal(t, []string{"1", "title 1", "description 1", "Slim", "Red", ""}, cells[0])
	assert.Equal(t, []string{"2", "title 2", "description 2", "", "Blue", "Wool"}, cells[1])
}

func TestBuildSchema_NoRows(t *testing.T) {
	schema := NewBuilder("").BuildSchema(nil)
	assert.Equal(t, []string{"id", "title", "description"}, schema.Columns)
	assert.Empty(t, schema.GapKeys)
	assert.Empty(t, schema.InventedKeys)
}

func TestTable_PrependsTimestamp(t *testing.T) {
	row := result("1", domain.NewInputRecord([]string{"color"}, []string{""}), "color", "Red")
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	schema, table := NewBuilder("").Table([]*domain.GenerationResult{row}, at)

	require.Len(t, table, 2)
	assert.Equal(t, []string{"last_modified", "id", "title", "description", "color"}, table[0])
	assert.Equal(t, []string{"2026-03-01T12:30:00Z", "1", "title 1", "description 1", "Red"}, table[1])
	assert.Equal(t, []string{"color"}, schema.GapKeys)
}
