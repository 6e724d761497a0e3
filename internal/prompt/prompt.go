// Package prompt renders the model prompts for a single feed record.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"feedgen/internal/domain"
)

// Builder renders title and description prompts from configurable prefixes.
type Builder struct {
	titlePrefix       string
	descriptionPrefix string
}

// NewBuilder creates a Builder. Empty prefixes fall back to the defaults.
func NewBuilder(titlePrefix, descriptionPrefix string) *Builder {
	if strings.TrimSpace(titlePrefix) == "" {
		titlePrefix = DefaultTitlePrefix
	}
	if strings.TrimSpace(descriptionPrefix) == "" {
		descriptionPrefix = DefaultDescriptionPrefix
	}
	return &Builder{
		titlePrefix:       strings.TrimRight(titlePrefix, " \t\n"),
		descriptionPrefix: strings.TrimRight(descriptionPrefix, " \t\n"),
	}
}

// Title renders the title-generation prompt for input. website is optional page text.
func (b *Builder) Title(input domain.InputRecord, website string) (string, error) {
	return render(b.titlePrefix, input, website)
}

// Description renders the description-generation prompt for input.
func (b *Builder) Description(input domain.InputRecord, website string) (string, error) {
	return render(b.descriptionPrefix, input, website)
}

func render(prefix string, input domain.InputRecord, website string) (string, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encoding prompt context: %w", err)
	}
	var ctxJSON bytes.Buffer
	if err := json.Indent(&ctxJSON, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indenting prompt context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString("\n\nContext:\n")
	sb.Write(ctxJSON.Bytes())
	if website = strings.TrimSpace(website); website != "" {
		sb.WriteString("\n\nWebsite:\n")
		sb.WriteString(website)
	}
	return sb.String(), nil
}
