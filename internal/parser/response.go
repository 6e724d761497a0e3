// Package parser decomposes labeled-line language model responses into structured records.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"feedgen/internal/domain"
)

const (
	// KindTitle labels errors raised while parsing title-generation responses.
	KindTitle = "title"
	// KindDescription labels errors raised while parsing description responses.
	KindDescription = "description"

	// Separator delimits list-valued sections.
	Separator = "|"
)

// Options controls which sections a title response must carry.
type Options struct {
	// DirectTitle requires a trailing "generated title:" section and returns its text.
	DirectTitle bool
}

// Parser tries its strategies in order and returns the first match.
type Parser struct {
	strategies []Strategy
}

// New creates a Parser. Without arguments it uses DefaultStrategies.
func New(strategies ...Strategy) *Parser {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Parser{strategies: strategies}
}

var defaultParser = New()

// ParseTitleResponse parses text with the default strategies.
func ParseTitleResponse(text string, opts Options) (*domain.ParsedResponse, error) {
	return defaultParser.ParseTitleResponse(text, opts)
}

// ParseDescriptionResponse parses a description response with the default parser.
func ParseDescriptionResponse(text string) (*domain.ParsedDescription, error) {
	return defaultParser.ParseDescriptionResponse(text)
}

// ParseTitleResponse decomposes a title-generation response. It fails with
// *domain.MalformedResponseError carrying the raw text when no strategy matches.
func (p *Parser) ParseTitleResponse(text string, opts Options) (*domain.ParsedResponse, error) {
	normalized := normalizeResponse(text)
	for _, s := range p.strategies {
		sections, ok := s.Match(normalized, opts)
		if !ok {
			continue
		}
		return buildParsedResponse(sections, s.Name(), opts), nil
	}

	reason := "labeled sections not found"
	if opts.DirectTitle {
		reason = "labeled sections not found (generated title section required)"
	}
	return nil, domain.NewMalformedResponseError(KindTitle, reason, text)
}

var descriptionPattern = regexp.MustCompile(
	`(?ims)^[ \t]*description:(.*?)^[ \t]*score:(.*?)^[ \t]*reasoning:(.*)\z`,
)

// ParseDescriptionResponse decomposes a description response into text, score and reasoning.
func (p *Parser) ParseDescriptionResponse(text string) (*domain.ParsedDescription, error) {
	m := descriptionPattern.FindStringSubmatch(normalizeResponse(text))
	if m == nil {
		return nil, domain.NewMalformedResponseError(KindDescription, "labeled sections not found", text)
	}

	rawScore := strings.TrimSpace(m[2])
	score, err := strconv.ParseFloat(rawScore, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, domain.NewMalformedResponseError(KindDescription, "score is not numeric: "+strconv.Quote(rawScore), text)
	}

	return &domain.ParsedDescription{
		Description: strings.TrimSpace(m[1]),
		Score:       score,
		Evaluation:  strings.TrimSpace(m[3]),
	}, nil
}

func buildParsedResponse(s Sections, strategy string, opts Options) *domain.ParsedResponse {
	keys, values := alignAttributes(s.GeneratedKeys, s.GeneratedValues)

	out := &domain.ParsedResponse{
		OriginalAttributeKeys:    splitList(s.OriginalKeys),
		Category:                 strings.TrimSpace(s.Category),
		GeneratedAttributeKeys:   keys,
		GeneratedAttributeValues: values,
		Strategy:                 strategy,
	}
	if s.HasReplacedKeys {
		out.ReplacedKeys = splitReplacedKeys(s.ReplacedKeys)
	}
	if opts.DirectTitle {
		out.GeneratedTitleText = strings.TrimSpace(s.GeneratedTitle)
		out.HasGeneratedTitle = true
	}
	return out
}

// alignAttributes pairs key and value tokens by position. Blank key positions are
// dropped together with their value; missing trailing values become "".
func alignAttributes(keySection, valueSection string) ([]string, []string) {
	keyTokens := strings.Split(keySection, Separator)
	valueTokens := strings.Split(valueSection, Separator)

	keys := make([]string, 0, len(keyTokens))
	values := make([]string, 0, len(keyTokens))
	for i, k := range keyTokens {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		v := ""
		if i < len(valueTokens) {
			v = strings.TrimSpace(valueTokens[i])
		}
		keys = append(keys, k)
		values = append(values, v)
	}
	return keys, values
}

// splitList splits a section on the separator, trimming tokens and discarding empty ones.
func splitList(section string) []string {
	var out []string
	for _, tok := range strings.Split(section, Separator) {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// splitReplacedKeys accepts either separator the model tends to use and lowercases keys.
func splitReplacedKeys(section string) map[string]bool {
	set := map[string]bool{}
	fields := strings.FieldsFunc(section, func(r rune) bool {
		return r == '|' || r == ','
	})
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			set[f] = true
		}
	}
	return set
}

// normalizeResponse undoes the quoting some batch backends apply to generated text:
// a wrapping pair of double quotes and escaped newlines.
func normalizeResponse(text string) string {
	t := strings.TrimSpace(text)
	if len(t) >= 2 && strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`) {
		t = t[1 : len(t)-1]
	}
	if !strings.Contains(t, "\n") && strings.Contains(t, `\n`) {
		t = strings.ReplaceAll(t, `\n`, "\n")
	}
	return t
}
