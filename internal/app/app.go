// Package app wires configuration into the stores, model chain and services
// shared by the server and the batch command.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"feedgen/internal/cache"
	"feedgen/internal/config"
	"feedgen/internal/email/noop"
	"feedgen/internal/email/ses"
	"feedgen/internal/llm"
	"feedgen/internal/port"
	"feedgen/internal/prompt"
	"feedgen/internal/repository/postgres"
	"feedgen/internal/repository/xlsx"
	"feedgen/internal/service"
	s3storage "feedgen/internal/storage/s3"
	"feedgen/internal/validator"
	"feedgen/internal/website"

	// Model providers register themselves with the llm factory.
	_ "feedgen/internal/llm/claude"
	_ "feedgen/internal/llm/gemini"
	_ "feedgen/internal/llm/openai"
	_ "feedgen/internal/llm/vertex"
)

const pageFetchTimeout = 20 * time.Second

// App holds the wired services and the dependencies that need closing.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      port.SheetStore
	Generation service.GenerationService
	Approvals  service.ApprovalService
	Exports    service.ExportService

	// Checks are dependency probes for the readiness endpoint, keyed by name.
	Checks map[string]func(ctx context.Context) error

	closers []func() error
}

// New builds the application graph from cfg.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
		Checks: map[string]func(ctx context.Context) error{},
	}

	if err := a.initStore(); err != nil {
		a.Close()
		return nil, err
	}

	generator, err := llm.Build(&cfg.Model, &cfg.Pipeline, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building model chain: %w", err)
	}

	var pages service.PageTextSource
	if cfg.Pipeline.UseWebsite {
		pages = website.NewCachedFetcher(website.NewHTTPFetcher(pageFetchTimeout), a.initCache(), cfg.Pipeline.CacheTTL, logger)
	}

	processor := service.NewRowProcessor(
		generator,
		prompt.NewBuilder(cfg.Pipeline.TitlePromptPrefix, cfg.Pipeline.DescriptionPromptPrefix),
		validator.NewEngine(validator.DefaultRegistry(), logger),
		pages,
		service.RowProcessorConfig{
			Feed:               cfg.Feed,
			Pipeline:           cfg.Pipeline,
			TitleModelID:       cfg.Model.TitleModelID,
			DescriptionModelID: cfg.Model.DescriptionModelID,
		},
		logger,
	)

	storage, err := a.initStorage()
	if err != nil {
		a.Close()
		return nil, err
	}
	sender, err := a.initEmail()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Generation = service.NewGenerationService(a.Store, processor, cfg.Feed, cfg.Pipeline, logger)
	a.Approvals = service.NewApprovalService(a.Store, cfg.Feed.GeneratedSheet, logger)
	a.Exports = service.NewExportService(a.Store, storage, sender, service.ExportServiceConfig{
		Feed:   cfg.Feed,
		Export: cfg.Export,
		S3:     cfg.S3,
	}, logger)
	return a, nil
}

// Close releases every opened dependency in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) initStore() error {
	store, closeFn, ping, err := OpenStore(a.Config, a.Logger)
	if err != nil {
		return err
	}
	a.Store = store
	if closeFn != nil {
		a.closers = append(a.closers, closeFn)
	}
	if ping != nil {
		a.Checks["database"] = ping
	}
	return nil
}

// OpenStore opens the configured sheet store alone. closeFn and ping are nil
// for the workbook store.
func OpenStore(cfg *config.Config, logger *zap.Logger) (store port.SheetStore, closeFn func() error, ping func(context.Context) error, err error) {
	switch cfg.Feed.Store {
	case "xlsx":
		logger.Info("app: using workbook store", zap.String("path", cfg.Feed.WorkbookPath))
		return xlsx.NewSheetStore(cfg.Feed.WorkbookPath), nil, nil, nil
	default:
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		return postgres.NewSheetStore(db), db.Close, db.PingContext, nil
	}
}

func (a *App) initCache() port.Cache {
	if !a.Config.Redis.Enabled {
		return cache.Noop{}
	}
	c := cache.NewRedisCache(cache.NewRedisClient(&a.Config.Redis), a.Config.Redis.KeyPrefix)
	a.closers = append(a.closers, c.Close)
	a.Checks["redis"] = c.Ping
	return c
}

func (a *App) initStorage() (port.ObjectStorage, error) {
	if !a.Config.Export.Upload {
		return nil, nil
	}
	client, err := s3storage.NewS3Client(&a.Config.S3)
	if err != nil {
		return nil, fmt.Errorf("initializing S3 client: %w", err)
	}
	a.Checks["s3"] = client.Ping
	return client, nil
}

func (a *App) initEmail() (port.EmailSender, error) {
	if a.Config.Email.Provider != "ses" {
		return noop.NewNoopSender(a.Logger), nil
	}
	sender, err := ses.NewSESSender(a.Config.Email.Region, a.Config.Email.FromAddress, a.Config.Email.FromName)
	if err != nil {
		return nil, fmt.Errorf("initializing SES sender: %w", err)
	}
	return sender, nil
}
