// Package assembler builds the final generated title and templates for a row.
package assembler

import (
	"strings"

	"feedgen/internal/domain"
)

// Title joins the resolved feature values with single spaces and strips a
// trailing comma. In direct-title mode the model's own title text wins.
func Title(features []string, parsed *domain.ParsedResponse, directTitle bool) string {
	if directTitle && parsed != nil && parsed.HasGeneratedTitle {
		return strings.TrimSpace(parsed.GeneratedTitleText)
	}
	parts := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	title := strings.Join(parts, " ")
	return strings.TrimSpace(strings.TrimSuffix(title, ","))
}

// Template renders attribute keys as "<key>, <key>" for the review sheet.
func Template(keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, "<"+strings.TrimSpace(k)+">")
	}
	return strings.Join(parts, ", ")
}

// Description returns the generated description text, trimmed.
func Description(parsed *domain.ParsedDescription) string {
	if parsed == nil {
		return ""
	}
	return strings.TrimSpace(parsed.Description)
}
