package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"feedgen/internal/config"
	"feedgen/internal/domain"
	"feedgen/internal/metrics"
	"feedgen/internal/port"
	"feedgen/internal/sheets"
)

// Processor turns one input row into a result.
type Processor interface {
	ProcessRow(ctx context.Context, input domain.InputRecord) *domain.GenerationResult
}

// GenerationService runs the pipeline over every unprocessed row of the input sheet.
type GenerationService interface {
	Run(ctx context.Context) (*domain.RunSummary, error)
}

type generationService struct {
	store     port.SheetStore
	processor Processor
	feed      config.FeedConfig
	pipeline  config.PipelineConfig
	logger    *zap.Logger
}

// NewGenerationService creates a new GenerationService implementation.
func NewGenerationService(
	store port.SheetStore,
	processor Processor,
	feed config.FeedConfig,
	pipeline config.PipelineConfig,
	logger *zap.Logger,
) GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &generationService{
		store:     store,
		processor: processor,
		feed:      feed,
		pipeline:  pipeline,
		logger:    logger,
	}
}

// Run processes pending rows in batches. Each batch is appended to the generated
// sheet before the next one starts, so an interrupted run resumes where it stopped.
func (s *generationService) Run(ctx context.Context) (*domain.RunSummary, error) {
	metrics.RunsActive.Inc()
	defer metrics.RunsActive.Dec()

	inputs, err := s.store.ReadRows(ctx, s.feed.InputSheet)
	if err != nil {
		return nil, fmt.Errorf("reading input sheet %q: %w", s.feed.InputSheet, err)
	}
	if len(inputs) > 0 && !inputs[0].Has(s.feed.IDColumn) {
		return nil, fmt.Errorf("column %q: %w", s.feed.IDColumn, domain.ErrMissingIDColumn)
	}

	existing, err := sheets.ReadResults(ctx, s.store, s.feed.GeneratedSheet)
	if err != nil {
		return nil, fmt.Errorf("reading generated sheet %q: %w", s.feed.GeneratedSheet, err)
	}
	done := make(map[string]bool, len(existing))
	for _, r := range existing {
		done[strings.TrimSpace(r.ItemID)] = true
	}

	summary := &domain.RunSummary{Total: len(inputs)}
	var pending []domain.InputRecord
	for _, in := range inputs {
		id := strings.TrimSpace(in.Value(s.feed.IDColumn))
		if id != "" && done[id] {
			summary.Skipped++
			continue
		}
		pending = append(pending, in)
	}

	s.logger.Info("service.generationService.Run: starting",
		zap.Int("total", summary.Total),
		zap.Int("skipped", summary.Skipped),
		zap.Int("pending", len(pending)),
		zap.Int("concurrency", s.concurrency()),
	)

	batchSize := s.pipeline.BatchSize
	if batchSize <= 0 {
		batchSize = len(pending)
	}
	for start := 0; start < len(pending); start += batchSize {
		end := min(start+batchSize, len(pending))
		results, err := s.processBatch(ctx, pending[start:end])
		if err != nil {
			return summary, err
		}
		if err := sheets.AppendResults(ctx, s.store, s.feed.GeneratedSheet, results); err != nil {
			return summary, fmt.Errorf("writing generated rows: %w", err)
		}
		for _, r := range results {
			summary.Add(r)
		}
		s.logger.Info("service.generationService.Run: batch written",
			zap.Int("rows", len(results)),
			zap.Int("processed", summary.Processed),
		)
	}

	s.logger.Info("service.generationService.Run: finished",
		zap.Int("processed", summary.Processed),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("non_compliant", summary.NonCompliant),
		zap.Int("failed", summary.Failed),
		zap.Int("auto_approved", summary.AutoApproved),
	)
	return summary, nil
}

// processBatch keeps input order in its output regardless of completion order.
func (s *generationService) processBatch(ctx context.Context, batch []domain.InputRecord) ([]*domain.GenerationResult, error) {
	results := make([]*domain.GenerationResult, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.processor.ProcessRow(gctx, batch[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *generationService) concurrency() int {
	if s.pipeline.Concurrency < 1 {
		return 1
	}
	return s.pipeline.Concurrency
}
