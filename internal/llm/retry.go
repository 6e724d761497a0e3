package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"feedgen/internal/metrics"
	"feedgen/internal/port"
)

// RetryOptions bounds the retry behavior of a RetryingGenerator.
type RetryOptions struct {
	// MaxAttempts is the number of calls allowed for non-rate-limit failures.
	MaxAttempts int
	// RetryDelay is the pause between generic attempts.
	RetryDelay time.Duration
	// RateLimitDelay is the fixed pause after a rate-limit signal.
	RateLimitDelay time.Duration
	// MaxRateLimitWaits caps the rate-limit pauses, independent of MaxAttempts.
	MaxRateLimitWaits int
}

// DefaultRetryOptions returns the bounds used when none are configured.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:       3,
		RetryDelay:        time.Second,
		RateLimitDelay:    30 * time.Second,
		MaxRateLimitWaits: 10,
	}
}

// RetryingGenerator retries a TextGenerator. Rate-limit signals are waited out with
// a fixed delay and do not consume the generic attempt budget. ClientErrors are
// returned without retrying.
type RetryingGenerator struct {
	next   port.TextGenerator
	opts   RetryOptions
	logger *zap.Logger
}

// NewRetryingGenerator wraps next with bounded retries.
func NewRetryingGenerator(next port.TextGenerator, opts RetryOptions, logger *zap.Logger) *RetryingGenerator {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.MaxRateLimitWaits < 0 {
		opts.MaxRateLimitWaits = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingGenerator{next: next, opts: opts, logger: logger}
}

func (r *RetryingGenerator) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	attempts := 0
	waits := 0
	for {
		out, err := r.next.Generate(ctx, input)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			if waits >= r.opts.MaxRateLimitWaits {
				return nil, fmt.Errorf("giving up after %d rate-limit waits: %w", waits, err)
			}
			waits++
			metrics.RateLimitWaits.Inc()
			r.logger.Warn("llm.RetryingGenerator: rate limited, waiting",
				zap.String("provider", rlErr.Provider),
				zap.Duration("delay", r.opts.RateLimitDelay),
				zap.Int("wait", waits))
			if err := sleep(ctx, r.opts.RateLimitDelay); err != nil {
				return nil, err
			}
			continue
		}

		if IsClientError(err) {
			return nil, err
		}

		attempts++
		if attempts >= r.opts.MaxAttempts {
			return nil, err
		}
		r.logger.Warn("llm.RetryingGenerator: attempt failed, retrying",
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", r.opts.MaxAttempts),
			zap.Error(err))
		if err := sleep(ctx, r.opts.RetryDelay); err != nil {
			return nil, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
