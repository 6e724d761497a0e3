package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgen/internal/domain"
)

const fullResponse = `product attribute keys in original title: brand | model | product
product category: Guitars
product attribute keys: brand | model | product | color | design
product attribute values: Seymour Duncan | SM-1 | Mini Humbucker | Chrome | Vintage
replaced keys: Color, design
generated title: Seymour Duncan SM-1 Mini Humbucker Chrome Vintage`

func TestParseTitleResponse_WithReplacedKeys(t *testing.T) {
	got, err := ParseTitleResponse(fullResponse, Options{})
	require.NoError(t, err)

	assert.Equal(t, StrategyWithReplacedKeys, got.Strategy)
	assert.Equal(t, []string{"brand", "model", "product"}, got.OriginalAttributeKeys)
	assert.Equal(t, "Guitars", got.Category)
	assert.Equal(t, []string{"brand", "model", "product", "color", "design"}, got.GeneratedAttributeKeys)
	assert.Equal(t, []string{"Seymour Duncan", "SM-1", "Mini Humbucker", "Chrome", "Vintage"}, got.GeneratedAttributeValues)
	assert.Equal(t, map[string]bool{"color": true, "design": true}, got.ReplacedKeys)
	assert.True(t, got.IsReplaced("Color"))
	assert.False(t, got.HasGeneratedTitle)
	assert.Empty(t, got.GeneratedTitleText)
}

func TestParseTitleResponse_FallsBackWithoutReplacedKeys(t *testing.T) {
	text := `Product Attribute Keys in Original Title: brand | product
PRODUCT CATEGORY: Drums
product attribute keys: brand | product | material
product attributes values: Gretsch Drums | Snare | Ahorn
generated title: Gretsch Drums Snare Ahorn`

	got, err := ParseTitleResponse(text, Options{})
	require.NoError(t, err)

	assert.Equal(t, StrategyWithoutReplacedKeys, got.Strategy)
	assert.Equal(t, "Drums", got.Category)
	assert.Equal(t, []string{"Gretsch Drums", "Snare", "Ahorn"}, got.GeneratedAttributeValues)
	assert.Nil(t, got.ReplacedKeys)
	assert.False(t, got.IsReplaced("material"))
}

func TestParseTitleResponse_DirectTitle(t *testing.T) {
	got, err := ParseTitleResponse(fullResponse, Options{DirectTitle: true})
	require.NoError(t, err)

	assert.True(t, got.HasGeneratedTitle)
	assert.Equal(t, "Seymour Duncan SM-1 Mini Humbucker Chrome Vintage", got.GeneratedTitleText)
	assert.Equal(t, map[string]bool{"color": true, "design": true}, got.ReplacedKeys)
}

func TestParseTitleResponse_DirectTitleMissingTitleSection(t *testing.T) {
	text := `product attribute keys in original title: brand
product category: Shoes
product attribute keys: brand
product attribute values: Acme`

	_, err := ParseTitleResponse(text, Options{DirectTitle: true})
	var malformed *domain.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, KindTitle, malformed.Kind)
	assert.Equal(t, text, malformed.Raw)
}

func TestParseTitleResponse_PadsMissingValues(t *testing.T) {
	text := `product attribute keys in original title: product
product category: Shoes
product attribute keys: brand | | product | size | color
product attribute values: Acme | ignored | Sneaker`

	got, err := ParseTitleResponse(text, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"brand", "product", "size", "color"}, got.GeneratedAttributeKeys)
	assert.Equal(t, []string{"Acme", "Sneaker", "", ""}, got.GeneratedAttributeValues)
	assert.Len(t, got.GeneratedAttributeValues, len(got.GeneratedAttributeKeys))
}

func TestParseTitleResponse_ExtraValuesAreTruncated(t *testing.T) {
	text := `product attribute keys in original title: product
product category: Shoes
product attribute keys: brand | product
product attribute values: Acme | Sneaker | Red | 10`

	got, err := ParseTitleResponse(text, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Sneaker"}, got.GeneratedAttributeValues)
}

func TestParseTitleResponse_TolerantOfPreambleAndEscapes(t *testing.T) {
	text := `"Sure! Here you go:\nproduct attribute keys in original title: brand\nproduct category: Shoes\nproduct attribute keys: brand | color\nproduct attribute values: Acme | Red\nreplaced keys: "`

	got, err := ParseTitleResponse(text, Options{})
	require.NoError(t, err)

	assert.Equal(t, StrategyWithReplacedKeys, got.Strategy)
	assert.Equal(t, []string{"brand", "color"}, got.GeneratedAttributeKeys)
	assert.Equal(t, []string{"Acme", "Red"}, got.GeneratedAttributeValues)
	assert.Empty(t, got.ReplacedKeys)
}

func TestParseTitleResponse_MarkerMustStartLine(t *testing.T) {
	text := `note: product attribute keys in original title: brand product category: Shoes product attribute keys: brand product attribute values: Acme`

	_, err := ParseTitleResponse(text, Options{})
	var malformed *domain.MalformedResponseError
	assert.True(t, errors.As(err, &malformed))
}

func TestParseTitleResponse_Malformed(t *testing.T) {
	_, err := ParseTitleResponse("I cannot help with that.", Options{})

	var malformed *domain.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, err.Error(), "I cannot help with that.")
}

func TestParseDescriptionResponse(t *testing.T) {
	text := `description: A sturdy snare drum with a maple shell.
It ships with a bag.
score: 4.5
reasoning: Accurate and well structured.`

	got, err := ParseDescriptionResponse(text)
	require.NoError(t, err)

	assert.Equal(t, "A sturdy snare drum with a maple shell.\nIt ships with a bag.", got.Description)
	assert.Equal(t, 4.5, got.Score)
	assert.Equal(t, "Accurate and well structured.", got.Evaluation)
}

func TestParseDescriptionResponse_MissingScore(t *testing.T) {
	text := `description: A sturdy snare drum.
reasoning: Fine.`

	_, err := ParseDescriptionResponse(text)

	var malformed *domain.MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, KindDescription, malformed.Kind)
}

func TestParseDescriptionResponse_NonNumericScore(t *testing.T) {
	for _, score := range []string{"excellent", "NaN", "nan", "Inf", "-Inf", "+Infinity"} {
		t.Run(score, func(t *testing.T) {
			text := "description: A sturdy snare drum.\nscore: " + score + "\nreasoning: Fine."

			_, err := ParseDescriptionResponse(text)

			var malformed *domain.MalformedResponseError
			require.True(t, errors.As(err, &malformed))
			assert.Contains(t, malformed.Reason, "not numeric")
		})
	}
}

type fixedStrategy struct{}

func (fixedStrategy) Name() string { return "fixed" }

func (fixedStrategy) Match(string, Options) (Sections, bool) {
	return Sections{GeneratedKeys: "brand", GeneratedValues: "Acme", Category: " Shoes "}, true
}

func TestParser_CustomStrategy(t *testing.T) {
	p := New(fixedStrategy{})

	got, err := p.ParseTitleResponse("anything", Options{})
	require.NoError(t, err)
	assert.Equal(t, "fixed", got.Strategy)
	assert.Equal(t, "Shoes", got.Category)
	assert.Equal(t, []string{"brand"}, got.GeneratedAttributeKeys)
}
