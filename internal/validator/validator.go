package validator

import (
	"context"

	"feedgen/internal/domain"
)

// Candidate is the generated content of one row awaiting validation.
type Candidate struct {
	ItemID      string
	Title       string
	Description string
}

// Result is the outcome of one rule against one field.
type Result struct {
	RuleKey       string `json:"rule_key"`
	Passed        bool   `json:"passed"`
	FieldPath     string `json:"field_path"`
	ExpectedValue string `json:"expected_value"`
	ActualValue   string `json:"actual_value"`
	Message       string `json:"message"`
}

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, c *Candidate) []Result
	RuleKey() string
	RuleName() string
	Severity() domain.ValidationSeverity
}
