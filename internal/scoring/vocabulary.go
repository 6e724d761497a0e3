package scoring

import (
	"strings"

	"feedgen/internal/domain"
)

// Vocabulary is the lowercased word set a generated title may draw from.
type Vocabulary map[string]struct{}

// NewVocabulary tokenizes every text into the vocabulary.
func NewVocabulary(texts ...string) Vocabulary {
	v := Vocabulary{}
	v.Add(texts...)
	return v
}

// BuildVocabulary collects the words of every input field value, the allow-listed
// words and any extra feature text extracted by the model.
func BuildVocabulary(input domain.InputRecord, allowed, extra []string) Vocabulary {
	v := NewVocabulary(input.Values()...)
	v.Add(allowed...)
	v.Add(extra...)
	return v
}

// Add tokenizes texts into the vocabulary.
func (v Vocabulary) Add(texts ...string) {
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			v[strings.ToLower(tok)] = struct{}{}
		}
	}
}

// Contains reports whether the lowercased word is in the vocabulary.
func (v Vocabulary) Contains(word string) bool {
	_, ok := v[strings.ToLower(word)]
	return ok
}
