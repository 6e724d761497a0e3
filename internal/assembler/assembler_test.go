package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"feedgen/internal/domain"
)

func TestTitle_JoinsFeatures(t *testing.T) {
	assert.Equal(t, "Red 10", Title([]string{"Red", "10"}, nil, false))
	assert.Equal(t, "Acme Sneaker, Size M", Title([]string{"Acme", " ", "Sneaker,", "Size M,"}, nil, false))
	assert.Equal(t, "", Title(nil, nil, false))
}

func TestTitle_DirectTitleOverrides(t *testing.T) {
	parsed := &domain.ParsedResponse{GeneratedTitleText: "  Acme Sneaker in Red  ", HasGeneratedTitle: true}

	assert.Equal(t, "Acme Sneaker in Red", Title([]string{"Acme", "Red"}, parsed, true))
	assert.Equal(t, "Acme Red", Title([]string{"Acme", "Red"}, parsed, false))
}

func TestTitle_DirectTitleWithoutSectionFallsBack(t *testing.T) {
	parsed := &domain.ParsedResponse{}
	assert.Equal(t, "Acme Red", Title([]string{"Acme", "Red"}, parsed, true))
}

func TestTemplate(t *testing.T) {
	assert.Equal(t, "<brand>, <model>, <color>", Template([]string{"brand", " model", "color"}))
	assert.Equal(t, "", Template(nil))
}

func TestDescription(t *testing.T) {
	assert.Equal(t, "", Description(nil))
	assert.Equal(t, "Nice shoes.", Description(&domain.ParsedDescription{Description: " Nice shoes.\n"}))
}
