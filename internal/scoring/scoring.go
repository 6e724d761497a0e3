// Package scoring computes the deterministic quality score of a generated title.
package scoring

import (
	"regexp"
	"strings"

	"feedgen/internal/domain"
)

// Score values.
const (
	ScoreNewVocabulary = -1.0
	ScoreWordsRemoved  = -0.5
	ScoreNonCompliant  = -1.0
)

var (
	wordPattern       = regexp.MustCompile(`[\p{L}\p{N}]+`)
	possessivePattern = regexp.MustCompile(`['’]s\b`)
	apostrophes       = strings.NewReplacer("'", "", "’", "")
)

// Input holds everything the score depends on.
type Input struct {
	OriginalTitle       string
	GeneratedTitle      string
	OriginalAttributes  []string
	GeneratedAttributes []string
	Vocabulary          Vocabulary
	HasGapAttributes    bool
}

// Result is the outcome of scoring one row.
type Result struct {
	Score             float64  `json:"score"`
	TitleChanged      bool     `json:"title_changed"`
	AddedAttributes   []string `json:"added_attributes"`
	RemovedAttributes []string `json:"removed_attributes"`
	NewWordsAdded     []string `json:"new_words_added"`
	WordsRemoved      []string `json:"words_removed"`
}

// Score is a pure function of in. Rules apply in priority order: vocabulary
// outside the input scores -1, dropped original words score -0.5, otherwise the
// score averages two booleans (any gap/invented attribute, any added attribute).
func Score(in Input) Result {
	res := Result{
		AddedAttributes:   difference(in.GeneratedAttributes, in.OriginalAttributes),
		RemovedAttributes: difference(in.OriginalAttributes, in.GeneratedAttributes),
	}

	genTokens := Tokenize(in.GeneratedTitle)
	genSet := make(map[string]bool, len(genTokens))
	for _, tok := range genTokens {
		genSet[strings.ToLower(tok)] = true
	}

	seen := map[string]bool{}
	for _, tok := range genTokens {
		lower := strings.ToLower(tok)
		if in.Vocabulary.Contains(lower) || seen[lower] {
			continue
		}
		seen[lower] = true
		res.NewWordsAdded = append(res.NewWordsAdded, tok)
	}

	strippedGenerated := strings.ToLower(apostrophes.Replace(in.GeneratedTitle))
	seen = map[string]bool{}
	for _, tok := range Tokenize(in.OriginalTitle) {
		lower := strings.ToLower(tok)
		if genSet[lower] || seen[lower] || strings.Contains(strippedGenerated, lower) {
			continue
		}
		seen[lower] = true
		res.WordsRemoved = append(res.WordsRemoved, tok)
	}

	switch {
	case len(res.NewWordsAdded) > 0:
		res.Score = ScoreNewVocabulary
	case len(res.WordsRemoved) > 0:
		res.Score = ScoreWordsRemoved
	default:
		res.Score = (boolScore(in.HasGapAttributes) + boolScore(len(res.AddedAttributes) > 0)) / 2
	}
	res.TitleChanged = res.Score != 0
	return res
}

// FinalScore is the score used for approval: non-compliant rows always score -1.
func FinalScore(status domain.GenerationStatus, score float64) float64 {
	if status == domain.GenerationStatusNonCompliant {
		return ScoreNonCompliant
	}
	return score
}

// Tokenize splits text into letter/digit words after removing possessive suffixes.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(possessivePattern.ReplaceAllString(text, ""), -1)
}

// difference returns the items of a absent from b, comparing case-insensitively
// and keeping a's order and first spelling.
func difference(a, b []string) []string {
	exclude := make(map[string]bool, len(b))
	for _, item := range b {
		exclude[domain.NormalizeKey(item)] = true
	}
	var out []string
	for _, item := range a {
		key := domain.NormalizeKey(item)
		if key == "" || exclude[key] {
			continue
		}
		exclude[key] = true
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
