package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgen/internal/domain"
)

func record(pairs ...string) domain.InputRecord {
	var names, values []string
	for i := 0; i+1 < len(pairs); i += 2 {
		names = append(names, pairs[i])
		values = append(values, pairs[i+1])
	}
	return domain.NewInputRecord(names, values)
}

func parsed(keys, values []string, replaced ...string) *domain.ParsedResponse {
	p := &domain.ParsedResponse{GeneratedAttributeKeys: keys, GeneratedAttributeValues: values}
	if len(replaced) > 0 {
		p.ReplacedKeys = map[string]bool{}
		for _, k := range replaced {
			p.ReplacedKeys[k] = true
		}
	}
	return p
}

func TestReconcile_ClassifiesInventedAndCarriedOver(t *testing.T) {
	input := record("title", "Red Shoes", "color", "Red")
	res := Reconcile(parsed([]string{"color", "size"}, []string{"Red", "10"}), input, Options{})

	require.Len(t, res.Classifications, 2)
	assert.Equal(t, domain.AttributeCarriedOver, res.Classifications[0].Kind)
	assert.Equal(t, domain.AttributeInvented, res.Classifications[1].Kind)

	assert.Equal(t, []string{"size"}, res.GapAttributes.Keys())
	v, _ := res.GapAttributes.Get("size")
	assert.Equal(t, "10", v)

	assert.Equal(t, []string{"color", "size"}, res.ValidGeneratedAttributes)
	assert.Equal(t, []string{"Red", "10"}, res.TitleFeatures)
}

func TestReconcile_GapFilledWhenInputEmpty(t *testing.T) {
	input := record("brand", "Acme", "material", "")
	res := Reconcile(parsed([]string{"brand", "Material"}, []string{"Acme", "Cotton"}), input, Options{})

	assert.Equal(t, domain.AttributeGapFilled, res.Classifications[1].Kind)
	assert.Equal(t, []string{"Material"}, res.GapAttributes.Keys())
	assert.Equal(t, 1, res.Count(domain.AttributeGapFilled))
	assert.Equal(t, 1, res.Count(domain.AttributeCarriedOver))
}

func TestReconcile_OriginalValueWinsByDefault(t *testing.T) {
	input := record("color", "Crimson")
	res := Reconcile(parsed([]string{"color"}, []string{"Red"}), input, Options{})

	assert.Equal(t, []string{"Crimson"}, res.TitleFeatures)
	assert.Equal(t, 0, res.GapAttributes.Len())
}

func TestReconcile_PreferGeneratedValues(t *testing.T) {
	input := record("color", "Crimson")
	res := Reconcile(parsed([]string{"color"}, []string{"Red"}), input, Options{PreferGeneratedValues: true})

	assert.Equal(t, []string{"Red"}, res.TitleFeatures)
	assert.Equal(t, domain.AttributeCarriedOver, res.Classifications[0].Kind)
}

func TestReconcile_ReplacedKeys(t *testing.T) {
	input := record("color", "Blue")
	p := parsed([]string{"color"}, []string{"Red"}, "color")

	honored := Reconcile(p, input, Options{HonorReplacedKeys: true})
	assert.Equal(t, domain.AttributeGapFilled, honored.Classifications[0].Kind)
	assert.True(t, honored.Classifications[0].Replaced)
	assert.Equal(t, []string{"Red"}, honored.TitleFeatures)
	v, ok := honored.GapAttributes.Get("color")
	assert.True(t, ok)
	assert.Equal(t, "Red", v)

	ignored := Reconcile(p, input, Options{})
	assert.Equal(t, domain.AttributeCarriedOver, ignored.Classifications[0].Kind)
	assert.Equal(t, []string{"Blue"}, ignored.TitleFeatures)
}

func TestReconcile_InventedWithEmptyValueStaysOutOfMap(t *testing.T) {
	res := Reconcile(parsed([]string{"size", "pattern"}, []string{"", "pattern,"}), record("title", "x"), Options{})

	assert.Equal(t, domain.AttributeInvented, res.Classifications[0].Kind)
	assert.Equal(t, domain.AttributeInvented, res.Classifications[1].Kind)
	assert.Equal(t, 0, res.GapAttributes.Len())
	assert.Empty(t, res.TitleFeatures)
	assert.Empty(t, res.ValidGeneratedAttributes)
}

func TestReconcile_EveryKeyHasExactlyOneKind(t *testing.T) {
	input := record("brand", "Acme", "color", "", "size", "M")
	p := parsed(
		[]string{"brand", "color", "size", "material", "fit"},
		[]string{"Acme", "Red", "L", "Wool", ""},
		"size",
	)
	res := Reconcile(p, input, Options{HonorReplacedKeys: true})

	total := res.Count(domain.AttributeCarriedOver) + res.Count(domain.AttributeGapFilled) + res.Count(domain.AttributeInvented)
	assert.Equal(t, len(p.GeneratedAttributeKeys), total)
	for _, k := range res.GapAttributes.Keys() {
		assert.Contains(t, p.GeneratedAttributeKeys, k)
	}
}

func TestReconcile_ExtraFeatures(t *testing.T) {
	p := parsed([]string{"brand", "Image Features", "website features"}, []string{"Acme", "leather strap, gold buckle", "waterproof"})
	res := Reconcile(p, record("brand", "Acme"), Options{})

	assert.Equal(t, []string{"leather strap, gold buckle", "waterproof"}, res.ExtraFeatures)
}

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"plain", "color", "Red", "Red"},
		{"trailing comma", "color", "Red,", "Red"},
		{"only one comma stripped", "color", "Red,,", "Red,"},
		{"equals key", "Color", "color", ""},
		{"equals key with comma", "color", "Color,", ""},
		{"blank", "color", "   ", ""},
		{"trimmed", "size", "  10 ", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanValue(tt.key, tt.value))
		})
	}
}
