package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputRecord_PadsAndSkipsDuplicates(t *testing.T) {
	rec := NewInputRecord([]string{"id", "title", "", "color", "title"}, []string{"1", "Red Shoes", "x"})

	assert.Equal(t, []string{"id", "title", "color"}, rec.Keys())
	assert.Equal(t, []string{"1", "Red Shoes", ""}, rec.Values())

	v, ok := rec.Get("color")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestInputRecord_LookupIsCaseInsensitive(t *testing.T) {
	rec := NewInputRecord([]string{"Color", "size"}, []string{"Red", "10"})

	v, ok := rec.Lookup("color")
	require.True(t, ok)
	assert.Equal(t, "Red", v)
	assert.True(t, rec.Has(" SIZE "))
	assert.False(t, rec.Has("material"))

	_, exact := rec.Get("color")
	assert.False(t, exact)
}

func TestInputRecord_JSONPreservesOrder(t *testing.T) {
	rec := NewInputRecord([]string{"zeta", "alpha", "mid"}, []string{"1", "2", "3"})

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":"3"}`, string(data))

	var decoded InputRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec.Keys(), decoded.Keys())
	assert.Equal(t, rec.Values(), decoded.Values())
}

func TestInputRecord_UnmarshalNonStringValues(t *testing.T) {
	var rec InputRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id": 220837, "active": true, "brand": null}`), &rec))

	assert.Equal(t, "220837", rec.Value("id"))
	assert.Equal(t, "true", rec.Value("active"))
	assert.Equal(t, "", rec.Value("brand"))
}

func TestAttributeMap_SetKeepsFirstPosition(t *testing.T) {
	m := NewAttributeMap()
	m.Set("size", "10")
	m.Set("color", "Red")
	m.Set("size", "11")

	assert.Equal(t, []string{"size", "color"}, m.Keys())
	v, _ := m.Get("size")
	assert.Equal(t, "11", v)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"size":"11","color":"Red"}`, string(data))

	var decoded AttributeMap
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m.Keys(), decoded.Keys())
}

func TestAttributeMap_ZeroValueIsUsable(t *testing.T) {
	var m AttributeMap
	assert.Equal(t, 0, m.Len())
	m.Set("material", "Cotton")
	assert.Equal(t, 1, m.Len())

	data, err := json.Marshal(AttributeMap{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestRunSummary_Add(t *testing.T) {
	var s RunSummary
	s.Add(&GenerationResult{Status: GenerationStatusSuccess, Approved: true})
	s.Add(&GenerationResult{Status: GenerationStatusNonCompliant})
	s.Add(&GenerationResult{Status: GenerationStatusFailed})

	assert.Equal(t, 3, s.Processed)
	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.NonCompliant)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.AutoApproved)
}

func TestRecordsFromTable(t *testing.T) {
	table := [][]string{
		{"id", "title", "color"},
		{"1", "Shoe"},
		{"", "  ", ""},
		{"2", "Boot", "Black"},
	}

	records := RecordsFromTable(table)

	require.Len(t, records, 2)
	assert.Equal(t, "", records[0].Value("color"))
	assert.True(t, records[0].Has("color"))
	assert.Equal(t, "Black", records[1].Value("color"))
	assert.Nil(t, RecordsFromTable(nil))
}
