package validator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"feedgen/internal/domain"
)

// Report is the validation outcome of one candidate.
type Report struct {
	Status  domain.GenerationStatus `json:"status"`
	Results []Result                `json:"results"`
}

// Failures returns the messages of failed rules, in rule order.
func (r *Report) Failures() []string {
	var out []string
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res.Message)
		}
	}
	return out
}

// Summary joins the failure messages for the review sheet.
func (r *Report) Summary() string {
	return strings.Join(r.Failures(), "; ")
}

// Engine runs every registered rule and rolls the results up into a status.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: registry, logger: logger}
}

// Validate returns SUCCESS when no error-severity rule failed, otherwise NON_COMPLIANT.
func (e *Engine) Validate(ctx context.Context, c *Candidate) *Report {
	report := &Report{Status: domain.GenerationStatusSuccess}

	for _, v := range e.registry.All() {
		for _, res := range v.Validate(ctx, c) {
			report.Results = append(report.Results, res)
			if !res.Passed && v.Severity() == domain.ValidationSeverityError {
				report.Status = domain.GenerationStatusNonCompliant
			}
		}
	}

	if report.Status != domain.GenerationStatusSuccess {
		e.logger.Debug("validator.Engine: row non-compliant",
			zap.String("item_id", c.ItemID),
			zap.Strings("failures", report.Failures()),
		)
	}
	return report
}
