package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgen/internal/domain"
)

func TestBuilder_TitleKeepsColumnOrder(t *testing.T) {
	b := NewBuilder("Write a title.", "")
	input := domain.NewInputRecord([]string{"id", "title", "brand"}, []string{"42", "Red Shoes", "Acme"})

	got, err := b.Title(input, "")
	require.NoError(t, err)

	want := "Write a title.\n\nContext:\n{\n  \"id\": \"42\",\n  \"title\": \"Red Shoes\",\n  \"brand\": \"Acme\"\n}"
	assert.Equal(t, want, got)
}

func TestBuilder_AppendsWebsite(t *testing.T) {
	b := NewBuilder("P", "D")
	input := domain.NewInputRecord([]string{"id"}, []string{"1"})

	got, err := b.Description(input, "  Handmade in Italy.  ")
	require.NoError(t, err)

	assert.Contains(t, got, "D\n\nContext:\n")
	assert.Contains(t, got, "\n\nWebsite:\nHandmade in Italy.")
}

func TestNewBuilder_Defaults(t *testing.T) {
	b := NewBuilder("", "  ")
	input := domain.NewInputRecord([]string{"id"}, []string{"1"})

	title, err := b.Title(input, "")
	require.NoError(t, err)
	assert.Contains(t, title, "generated title:")
	assert.Contains(t, title, "replaced keys:")

	desc, err := b.Description(input, "")
	require.NoError(t, err)
	assert.Contains(t, desc, `"score: "`)
	assert.NotContains(t, desc, "Website:")
}
