package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"feedgen/internal/assembler"
	"feedgen/internal/config"
	"feedgen/internal/domain"
	"feedgen/internal/metrics"
	"feedgen/internal/parser"
	"feedgen/internal/port"
	"feedgen/internal/prompt"
	"feedgen/internal/reconcile"
	"feedgen/internal/scoring"
	"feedgen/internal/validator"
)

// PageTextSource returns the visible text of a product page, keyed by item id.
type PageTextSource interface {
	Text(ctx context.Context, itemID, url string) (string, error)
}

// RowProcessorConfig holds the settings one row run depends on.
type RowProcessorConfig struct {
	Feed               config.FeedConfig
	Pipeline           config.PipelineConfig
	TitleModelID       string
	DescriptionModelID string
}

// RowProcessor runs the full generation pipeline for a single feed row.
type RowProcessor struct {
	generator port.TextGenerator
	prompts   *prompt.Builder
	validator *validator.Engine
	pages     PageTextSource
	cfg       RowProcessorConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewRowProcessor creates a RowProcessor. pages may be nil when website text is not used.
func NewRowProcessor(
	generator port.TextGenerator,
	prompts *prompt.Builder,
	engine *validator.Engine,
	pages PageTextSource,
	cfg RowProcessorConfig,
	logger *zap.Logger,
) *RowProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RowProcessor{
		generator: generator,
		prompts:   prompts,
		validator: engine,
		pages:     pages,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessRow generates, validates and scores one input row. It never returns an
// error: any failure is captured as a FAILED result carrying the item id and a
// diagnostic message.
func (p *RowProcessor) ProcessRow(ctx context.Context, input domain.InputRecord) *domain.GenerationResult {
	start := p.now()
	feed := p.cfg.Feed

	res := &domain.GenerationResult{
		ItemID:              input.Value(feed.IDColumn),
		OriginalTitle:       input.Value(feed.TitleColumn),
		OriginalDescription: input.Value(feed.DescriptionColumn),
		GapAttributes:       domain.NewAttributeMap(),
		Input:               input,
		ProcessedAt:         start.UTC(),
	}

	if err := p.generate(ctx, input, res); err != nil {
		p.logger.Warn("service.RowProcessor.ProcessRow: row failed",
			zap.String("item_id", res.ItemID), zap.Error(err))
		res = p.failed(res, err)
	}

	metrics.RowsProcessed.WithLabelValues(string(res.Status)).Inc()
	metrics.RowDuration.Observe(time.Since(start).Seconds())
	if res.Approved {
		metrics.RowsAutoApproved.Inc()
	}
	return res
}

func (p *RowProcessor) generate(ctx context.Context, input domain.InputRecord, res *domain.GenerationResult) error {
	if res.ItemID == "" {
		return fmt.Errorf("row has no value in item id column %q", p.cfg.Feed.IDColumn)
	}
	pipe := p.cfg.Pipeline

	website := p.websiteText(ctx, input, res.ItemID)
	var diagnostics []string

	var sc scoring.Result
	if pipe.GenerateTitles {
		raw, err := p.generateTitle(ctx, input, website, res, &sc)
		if raw != "" {
			diagnostics = append(diagnostics, raw)
		}
		if err != nil {
			return err
		}
	} else {
		res.GeneratedTitle = res.OriginalTitle
	}

	if pipe.GenerateDescriptions {
		raw, err := p.generateDescription(ctx, input, website, res)
		if raw != "" {
			diagnostics = append(diagnostics, raw)
		}
		if err != nil {
			return err
		}
	} else {
		res.GeneratedDescription = res.OriginalDescription
	}

	report := p.validator.Validate(ctx, &validator.Candidate{
		ItemID:      res.ItemID,
		Title:       res.GeneratedTitle,
		Description: res.GeneratedDescription,
	})
	res.Status = report.Status
	if summary := report.Summary(); summary != "" {
		diagnostics = append(diagnostics, "Validation: "+summary)
	}

	res.Score = scoring.FinalScore(res.Status, sc.Score)
	res.Approved = p.autoApprove(res)
	res.Diagnostic = strings.Join(diagnostics, "\n\n")
	return nil
}

// generateTitle returns the raw model text so the caller can keep it as diagnostic.
func (p *RowProcessor) generateTitle(
	ctx context.Context,
	input domain.InputRecord,
	website string,
	res *domain.GenerationResult,
	sc *scoring.Result,
) (string, error) {
	pipe := p.cfg.Pipeline

	text, err := p.prompts.Title(input, website)
	if err != nil {
		return "", fmt.Errorf("building title prompt: %w", err)
	}
	out, err := p.generator.Generate(ctx, port.GenerateInput{
		ModelID:  p.cfg.TitleModelID,
		Prompt:   text,
		ImageURL: p.imageURL(input),
	})
	if err != nil {
		return "", fmt.Errorf("generating title: %w", err)
	}

	parsed, err := parser.ParseTitleResponse(out.Text, parser.Options{DirectTitle: pipe.DirectTitle})
	if err != nil {
		return "", err
	}

	rec := reconcile.Reconcile(parsed, input, reconcile.Options{
		PreferGeneratedValues: pipe.PreferGeneratedValues,
		HonorReplacedKeys:     pipe.HonorReplacedKeys,
	})

	res.Category = parsed.Category
	res.GeneratedTitle = assembler.Title(rec.TitleFeatures, parsed, pipe.DirectTitle)
	res.OriginalTemplate = assembler.Template(parsed.OriginalAttributeKeys)
	res.GeneratedTemplate = assembler.Template(rec.ValidGeneratedAttributes)
	res.GapAttributes = rec.GapAttributes

	*sc = scoring.Score(scoring.Input{
		OriginalTitle:       res.OriginalTitle,
		GeneratedTitle:      res.GeneratedTitle,
		OriginalAttributes:  parsed.OriginalAttributeKeys,
		GeneratedAttributes: rec.ValidGeneratedAttributes,
		Vocabulary:          scoring.BuildVocabulary(input, pipe.AllowedWords, rec.ExtraFeatures),
		HasGapAttributes:    rec.GapAttributes.Len() > 0,
	})
	res.TitleChanged = sc.TitleChanged
	res.AddedAttributes = sc.AddedAttributes
	res.RemovedAttributes = sc.RemovedAttributes
	res.NewWordsAdded = sc.NewWordsAdded
	res.WordsRemoved = sc.WordsRemoved

	return out.Text, nil
}

func (p *RowProcessor) generateDescription(
	ctx context.Context,
	input domain.InputRecord,
	website string,
	res *domain.GenerationResult,
) (string, error) {
	text, err := p.prompts.Description(input, website)
	if err != nil {
		return "", fmt.Errorf("building description prompt: %w", err)
	}
	out, err := p.generator.Generate(ctx, port.GenerateInput{
		ModelID:  p.cfg.DescriptionModelID,
		Prompt:   text,
		ImageURL: p.imageURL(input),
	})
	if err != nil {
		return "", fmt.Errorf("generating description: %w", err)
	}

	parsed, err := parser.ParseDescriptionResponse(out.Text)
	if err != nil {
		return "", err
	}
	res.GeneratedDescription = assembler.Description(parsed)
	res.DescriptionScore = parsed.Score
	res.DescriptionReasoning = parsed.Evaluation
	return out.Text, nil
}

func (p *RowProcessor) autoApprove(res *domain.GenerationResult) bool {
	pipe := p.cfg.Pipeline
	if res.Status != domain.GenerationStatusSuccess {
		return false
	}
	if res.Score < pipe.MinApprovalScore {
		return false
	}
	if pipe.GenerateDescriptions && res.DescriptionScore < pipe.MinDescriptionScore {
		return false
	}
	return true
}

func (p *RowProcessor) imageURL(input domain.InputRecord) string {
	if !p.cfg.Pipeline.UseImages || p.cfg.Feed.ImageColumn == "" {
		return ""
	}
	return strings.TrimSpace(input.Value(p.cfg.Feed.ImageColumn))
}

// websiteText is best effort: a failed fetch leaves the prompt without page text.
func (p *RowProcessor) websiteText(ctx context.Context, input domain.InputRecord, itemID string) string {
	if !p.cfg.Pipeline.UseWebsite || p.pages == nil || p.cfg.Feed.WebsiteColumn == "" {
		return ""
	}
	url := strings.TrimSpace(input.Value(p.cfg.Feed.WebsiteColumn))
	text, err := p.pages.Text(ctx, itemID, url)
	if err != nil {
		p.logger.Warn("service.RowProcessor: website fetch failed",
			zap.String("item_id", itemID), zap.String("url", url), zap.Error(err))
		return ""
	}
	return text
}

// failed keeps the identifying fields of res and resets everything generated.
func (p *RowProcessor) failed(res *domain.GenerationResult, err error) *domain.GenerationResult {
	return &domain.GenerationResult{
		Status:              domain.GenerationStatusFailed,
		ItemID:              res.ItemID,
		OriginalTitle:       res.OriginalTitle,
		OriginalDescription: res.OriginalDescription,
		GapAttributes:       domain.NewAttributeMap(),
		Diagnostic:          err.Error(),
		Input:               res.Input,
		ProcessedAt:         res.ProcessedAt,
	}
}
