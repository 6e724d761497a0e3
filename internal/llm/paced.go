package llm

import (
	"context"

	"golang.org/x/time/rate"

	"feedgen/internal/port"
)

// PacedGenerator spaces calls to the wrapped generator to a steady request rate.
type PacedGenerator struct {
	next    port.TextGenerator
	limiter *rate.Limiter
}

// NewPacedGenerator limits next to requestsPerSecond calls. A non-positive rate disables pacing.
func NewPacedGenerator(next port.TextGenerator, requestsPerSecond float64) *PacedGenerator {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &PacedGenerator{next: next, limiter: rate.NewLimiter(limit, 1)}
}

func (p *PacedGenerator) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.next.Generate(ctx, input)
}
