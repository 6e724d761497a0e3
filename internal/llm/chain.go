package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"feedgen/internal/config"
	"feedgen/internal/domain"
	"feedgen/internal/metrics"
	"feedgen/internal/port"
)

// instrumented counts calls to a single provider by outcome.
type instrumented struct {
	next     port.TextGenerator
	provider string
}

func (g *instrumented) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	out, err := g.next.Generate(ctx, input)
	metrics.ModelCalls.WithLabelValues(g.provider, outcome(err)).Inc()
	return out, err
}

func outcome(err error) string {
	var blocked *domain.BlockedContentError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsRateLimited(err):
		return metrics.OutcomeRateLimited
	case errors.As(err, &blocked):
		return metrics.OutcomeBlocked
	default:
		return metrics.OutcomeError
	}
}

// Build assembles the generator used by the pipeline: the primary provider, the
// optional secondary as fallback, request pacing and bounded retries.
func Build(model *config.ModelConfig, pipeline *config.PipelineConfig, logger *zap.Logger) (port.TextGenerator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	primaryCfg := model.PrimaryConfig()
	primary, err := NewGenerator(primaryCfg)
	if err != nil {
		return nil, fmt.Errorf("creating primary generator: %w", err)
	}

	var gen port.TextGenerator = &instrumented{next: primary, provider: primaryCfg.Provider}
	if secondaryCfg := model.SecondaryConfig(); secondaryCfg != nil {
		secondary, err := NewGenerator(secondaryCfg)
		if err != nil {
			return nil, fmt.Errorf("creating secondary generator: %w", err)
		}
		gen = NewFallbackGenerator(
			[]port.TextGenerator{gen, &instrumented{next: secondary, provider: secondaryCfg.Provider}},
			[]string{primaryCfg.Provider, secondaryCfg.Provider},
			logger,
		)
		logger.Info("llm.Build: fallback provider configured",
			zap.String("primary", primaryCfg.Provider), zap.String("secondary", secondaryCfg.Provider))
	}

	gen = NewPacedGenerator(gen, pipeline.RequestsPerSecond)
	return NewRetryingGenerator(gen, RetryOptions{
		MaxAttempts:       pipeline.MaxRetries,
		RetryDelay:        pipeline.RetryDelay,
		RateLimitDelay:    pipeline.RateLimitDelay,
		MaxRateLimitWaits: pipeline.MaxRateLimitWaits,
	}, logger), nil
}
