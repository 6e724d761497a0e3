package parser

import (
	"regexp"
	"strings"
)

// Strategy names.
const (
	StrategyWithReplacedKeys    = "with-replaced-keys"
	StrategyWithoutReplacedKeys = "without-replaced-keys"
)

// Section markers, matched case-insensitively at the start of a line.
const (
	markerOriginalKeys   = `product attribute keys in original title`
	markerCategory       = `product category`
	markerGeneratedKeys  = `product attribute keys`
	markerGeneratedVals  = `product attributes? values`
	markerReplacedKeys   = `replaced keys`
	markerGeneratedTitle = `generated title[^:\n]*`
)

// Sections holds the raw, untrimmed text captured for each labeled section.
type Sections struct {
	OriginalKeys    string
	Category        string
	GeneratedKeys   string
	GeneratedValues string
	ReplacedKeys    string
	HasReplacedKeys bool
	GeneratedTitle  string
}

// Strategy is one way of locating the labeled sections in a response.
type Strategy interface {
	Name() string
	Match(text string, opts Options) (Sections, bool)
}

// DefaultStrategies returns the primary strategy followed by the fallback that
// tolerates a missing replaced-keys section.
func DefaultStrategies() []Strategy {
	return []Strategy{
		NewRegexStrategy(StrategyWithReplacedKeys, true),
		NewRegexStrategy(StrategyWithoutReplacedKeys, false),
	}
}

// RegexStrategy matches the whole response with a single multiline, dot-all pattern.
type RegexStrategy struct {
	name         string
	withReplaced bool
	plain        *regexp.Regexp
	titled       *regexp.Regexp
}

// NewRegexStrategy compiles the pattern pair for a strategy. withReplaced controls
// whether a replaced-keys section is required between the values and the title.
func NewRegexStrategy(name string, withReplaced bool) *RegexStrategy {
	return &RegexStrategy{
		name:         name,
		withReplaced: withReplaced,
		plain:        regexp.MustCompile(buildPattern(withReplaced, false)),
		titled:       regexp.MustCompile(buildPattern(withReplaced, true)),
	}
}

func (s *RegexStrategy) Name() string { return s.name }

func (s *RegexStrategy) Match(text string, opts Options) (Sections, bool) {
	re := s.plain
	if opts.DirectTitle {
		re = s.titled
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return Sections{}, false
	}

	out := Sections{
		OriginalKeys:    m[1],
		Category:        m[2],
		GeneratedKeys:   m[3],
		GeneratedValues: m[4],
	}
	next := 5
	if s.withReplaced {
		out.ReplacedKeys = m[next]
		out.HasReplacedKeys = true
		next++
	}
	if opts.DirectTitle {
		out.GeneratedTitle = m[next]
	}
	return out, true
}

func section(marker string) string {
	return `^[ \t]*` + marker + `:(.*?)`
}

func buildPattern(withReplaced, titled bool) string {
	var b strings.Builder
	b.WriteString(`(?ims)`)
	b.WriteString(section(markerOriginalKeys))
	b.WriteString(section(markerCategory))
	b.WriteString(section(markerGeneratedKeys))
	b.WriteString(section(markerGeneratedVals))
	if withReplaced {
		b.WriteString(section(markerReplacedKeys))
	}
	if titled {
		b.WriteString(`^[ \t]*` + markerGeneratedTitle + `:(.*)\z`)
	} else {
		// A title line may still be present; it is ignored.
		b.WriteString(`(?:^[ \t]*` + markerGeneratedTitle + `:.*)?\z`)
	}
	return b.String()
}
