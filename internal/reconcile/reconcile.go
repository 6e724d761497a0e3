// Package reconcile merges generated attributes with the original feed record.
package reconcile

import (
	"strings"

	"feedgen/internal/domain"
)

// Keys whose generated values carry vocabulary extracted from the product image or web page.
const (
	ImageFeaturesKey   = "Image Features"
	WebsiteFeaturesKey = "Website Features"
)

// Options controls how generated values are resolved against the input.
type Options struct {
	// PreferGeneratedValues uses the generated value even when the input has one.
	PreferGeneratedValues bool
	// HonorReplacedKeys treats keys the model flagged as replaced as gap-filled overrides.
	HonorReplacedKeys bool
}

// Result is the reconciliation of one parsed response against its input record.
type Result struct {
	// Classifications holds one entry per generated key, in generated order.
	Classifications []domain.AttributeClassification
	// GapAttributes maps gap-filled and invented keys to their non-empty values.
	GapAttributes domain.AttributeMap
	// ValidGeneratedAttributes lists the keys that contributed a non-empty title value.
	ValidGeneratedAttributes []string
	// TitleFeatures lists the resolved values used to assemble the title.
	TitleFeatures []string
	// ExtraFeatures holds the image/website feature values the model extracted.
	ExtraFeatures []string
}

// Count returns how many generated keys were classified as kind.
func (r *Result) Count(kind domain.AttributeKind) int {
	n := 0
	for _, c := range r.Classifications {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Reconcile classifies every generated attribute of parsed against input and
// resolves the value each one contributes to the title.
func Reconcile(parsed *domain.ParsedResponse, input domain.InputRecord, opts Options) *Result {
	res := &Result{GapAttributes: domain.NewAttributeMap()}

	for i, key := range parsed.GeneratedAttributeKeys {
		rawGenerated := ""
		if i < len(parsed.GeneratedAttributeValues) {
			rawGenerated = parsed.GeneratedAttributeValues[i]
		}
		generated := CleanValue(key, rawGenerated)

		original, present := input.Lookup(key)
		original = CleanValue(key, original)

		replaced := opts.HonorReplacedKeys && parsed.IsReplaced(key)

		c := domain.AttributeClassification{
			Key:            key,
			Kind:           classify(present, original, generated, replaced),
			GeneratedValue: generated,
			OriginalValue:  original,
			Replaced:       replaced,
		}
		c.ResolvedValue = resolve(original, generated, replaced, opts.PreferGeneratedValues)
		res.Classifications = append(res.Classifications, c)

		if c.Kind != domain.AttributeCarriedOver && generated != "" {
			res.GapAttributes.Set(key, c.ResolvedValue)
		}
		if c.ResolvedValue != "" {
			res.ValidGeneratedAttributes = append(res.ValidGeneratedAttributes, key)
			res.TitleFeatures = append(res.TitleFeatures, c.ResolvedValue)
		}
		if isFeatureKey(key) && generated != "" {
			res.ExtraFeatures = append(res.ExtraFeatures, generated)
		}
	}
	return res
}

func classify(present bool, original, generated string, replaced bool) domain.AttributeKind {
	if !present {
		return domain.AttributeInvented
	}
	if (original == "" || replaced) && generated != "" {
		return domain.AttributeGapFilled
	}
	return domain.AttributeCarriedOver
}

func resolve(original, generated string, replaced, preferGenerated bool) string {
	if replaced || preferGenerated {
		return generated
	}
	if original != "" {
		return original
	}
	return generated
}

// CleanValue drops a value that merely repeats its key (optionally followed by a
// comma) and strips a single trailing comma.
func CleanValue(key, value string) string {
	v := strings.TrimSpace(value)
	k := strings.TrimSpace(key)
	if v == "" {
		return ""
	}
	if strings.EqualFold(v, k) || strings.EqualFold(v, k+",") {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(v, ","))
}

func isFeatureKey(key string) bool {
	return strings.EqualFold(strings.TrimSpace(key), ImageFeaturesKey) ||
		strings.EqualFold(strings.TrimSpace(key), WebsiteFeaturesKey)
}
