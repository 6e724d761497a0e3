package validator

import (
	"context"
	"fmt"
	"unicode/utf8"

	"feedgen/internal/domain"
)

// Maximum lengths, counted in characters.
const (
	MaxTitleLength       = 150
	MaxDescriptionLength = 5000
)

// fieldValidator checks one extracted field of a candidate.
type fieldValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	severity  domain.ValidationSeverity
	extract   func(*Candidate) string
	check     func(string) (passed bool, expected string)
}

func (v *fieldValidator) RuleKey() string                     { return v.ruleKey }
func (v *fieldValidator) RuleName() string                    { return v.ruleName }
func (v *fieldValidator) Severity() domain.ValidationSeverity { return v.severity }

func (v *fieldValidator) Validate(_ context.Context, c *Candidate) []Result {
	val := v.extract(c)
	passed, expected := v.check(val)
	return []Result{{
		RuleKey:       v.ruleKey,
		Passed:        passed,
		FieldPath:     v.fieldPath,
		ExpectedValue: expected,
		ActualValue:   val,
		Message:       fieldMessage(passed, v.ruleName, v.fieldPath),
	}}
}

func fieldMessage(passed bool, ruleName, fieldPath string) string {
	if passed {
		return fmt.Sprintf("%s: %s is valid", ruleName, fieldPath)
	}
	return fmt.Sprintf("%s: %s failed", ruleName, fieldPath)
}

func nonEmpty(val string) (bool, string) {
	return val != "", "non-empty value"
}

func maxLength(limit int) func(string) (bool, string) {
	return func(val string) (bool, string) {
		return utf8.RuneCountInString(val) <= limit, fmt.Sprintf("at most %d characters", limit)
	}
}

func title(c *Candidate) string       { return c.Title }
func description(c *Candidate) string { return c.Description }

// BuiltinValidators returns the required-field and length rules applied to every row.
func BuiltinValidators() []Validator {
	return []Validator{
		&fieldValidator{
			ruleKey: "req.title", ruleName: "Required: Title",
			fieldPath: "title", severity: domain.ValidationSeverityError,
			extract: title, check: nonEmpty,
		},
		&fieldValidator{
			ruleKey: "req.description", ruleName: "Required: Description",
			fieldPath: "description", severity: domain.ValidationSeverityError,
			extract: description, check: nonEmpty,
		},
		&fieldValidator{
			ruleKey: "len.title", ruleName: "Length: Title",
			fieldPath: "title", severity: domain.ValidationSeverityError,
			extract: title, check: maxLength(MaxTitleLength),
		},
		&fieldValidator{
			ruleKey: "len.description", ruleName: "Length: Description",
			fieldPath: "description", severity: domain.ValidationSeverityError,
			extract: description, check: maxLength(MaxDescriptionLength),
		},
	}
}
