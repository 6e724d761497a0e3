package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"feedgen/internal/config"
	"feedgen/internal/domain"
	"feedgen/internal/export"
	"feedgen/internal/metrics"
	"feedgen/internal/port"
	"feedgen/internal/sheets"
)

const exportBaseName = "feedgen_export"

// ExportService builds the output feed from approved rows.
type ExportService interface {
	Export(ctx context.Context) (*domain.ExportResult, error)
	WriteCSV(ctx context.Context, w io.Writer) error
	WriteXLSX(ctx context.Context, w io.Writer) error
}

// ExportServiceConfig holds the settings an export depends on.
type ExportServiceConfig struct {
	Feed   config.FeedConfig
	Export config.ExportConfig
	S3     config.S3Config
}

type exportService struct {
	store   port.SheetStore
	storage port.ObjectStorage
	email   port.EmailSender
	builder *export.Builder
	cfg     ExportServiceConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService creates a new ExportService implementation. storage and email
// may be nil; the corresponding steps are then skipped.
func NewExportService(
	store port.SheetStore,
	storage port.ObjectStorage,
	email port.EmailSender,
	cfg ExportServiceConfig,
	logger *zap.Logger,
) ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &exportService{
		store:   store,
		storage: storage,
		email:   email,
		builder: export.NewBuilder(cfg.Export.InventedPrefix),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Export rewrites the output sheet from the approved rows and, when configured,
// uploads CSV and XLSX artifacts and sends the export-ready email.
func (s *exportService) Export(ctx context.Context) (*domain.ExportResult, error) {
	result, err := s.export(ctx)
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.Exports.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return result, nil
}

func (s *exportService) export(ctx context.Context) (*domain.ExportResult, error) {
	exportedAt := s.now().UTC()
	schema, table, err := s.table(ctx, exportedAt)
	if err != nil {
		return nil, err
	}

	if err := sheets.ReplaceSheet(ctx, s.store, s.cfg.Feed.OutputSheet, table); err != nil {
		return nil, fmt.Errorf("writing output sheet: %w", err)
	}

	result := &domain.ExportResult{
		Schema:     schema,
		RowCount:   len(table) - 1,
		ExportedAt: exportedAt,
	}

	if s.cfg.Export.Upload && s.storage != nil {
		location, err := s.upload(ctx, table, exportedAt)
		if err != nil {
			return nil, err
		}
		result.Location = location
	}

	s.notify(ctx, result)

	s.logger.Info("service.exportService.Export: export written",
		zap.Int("rows", result.RowCount),
		zap.Int("columns", len(schema.Columns)),
		zap.Strings("invented_keys", schema.InventedKeys),
	)
	return result, nil
}

func (s *exportService) WriteCSV(ctx context.Context, w io.Writer) error {
	_, table, err := s.table(ctx, s.now().UTC())
	if err != nil {
		return err
	}
	return export.WriteCSV(w, table)
}

func (s *exportService) WriteXLSX(ctx context.Context, w io.Writer) error {
	_, table, err := s.table(ctx, s.now().UTC())
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, s.cfg.Feed.OutputSheet, table)
}

func (s *exportService) table(ctx context.Context, exportedAt time.Time) (domain.ExportSchema, [][]string, error) {
	results, err := sheets.ReadResults(ctx, s.store, s.cfg.Feed.GeneratedSheet)
	if err != nil {
		return domain.ExportSchema{}, nil, fmt.Errorf("reading generated sheet: %w", err)
	}

	approved := make([]*domain.GenerationResult, 0, len(results))
	for _, r := range results {
		if r.Approved && !r.Failed() {
			approved = append(approved, r)
		}
	}
	if len(approved) == 0 {
		return domain.ExportSchema{}, nil, domain.ErrNoApprovedRows
	}

	schema, table := s.builder.Table(approved, exportedAt)
	return schema, table, nil
}

// upload stores both renderings and returns a presigned URL for the CSV.
func (s *exportService) upload(ctx context.Context, table [][]string, at time.Time) (string, error) {
	var csvBuf, xlsxBuf bytes.Buffer
	if err := export.WriteCSV(&csvBuf, table); err != nil {
		return "", fmt.Errorf("rendering csv: %w", err)
	}
	if err := export.WriteXLSX(&xlsxBuf, s.cfg.Feed.OutputSheet, table); err != nil {
		return "", fmt.Errorf("rendering xlsx: %w", err)
	}

	csvKey := s.cfg.Export.KeyPrefix + export.BuildFilename(exportBaseName, "csv", at)
	xlsxKey := s.cfg.Export.KeyPrefix + export.BuildFilename(exportBaseName, "xlsx", at)

	uploads := []port.UploadInput{
		{Bucket: s.cfg.S3.Bucket, Key: csvKey, Body: &csvBuf, ContentType: "text/csv; charset=utf-8"},
		{Bucket: s.cfg.S3.Bucket, Key: xlsxKey, Body: &xlsxBuf, ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}
	var done []string
	for _, in := range uploads {
		if _, err := s.storage.Upload(ctx, in); err != nil {
			s.logger.Error("service.exportService.upload: upload failed", zap.String("key", in.Key), zap.Error(err))
			s.removeUploaded(ctx, done)
			return "", fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, in.Key, err)
		}
		done = append(done, in.Key)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.S3.Bucket, csvKey, s.cfg.S3.PresignExpiry)
	if err != nil {
		s.logger.Warn("service.exportService.upload: presign failed", zap.String("key", csvKey), zap.Error(err))
		return csvKey, nil
	}
	return url, nil
}

// removeUploaded deletes the artifacts of a partially uploaded export.
func (s *exportService) removeUploaded(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, s.cfg.S3.Bucket, key); err != nil {
			s.logger.Warn("service.exportService.removeUploaded: delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// notify is fire-and-forget: a failed email never fails the export.
func (s *exportService) notify(ctx context.Context, result *domain.ExportResult) {
	if s.email == nil || s.cfg.Export.NotifyEmail == "" {
		return
	}
	err := s.email.SendExportReadyEmail(ctx, s.cfg.Export.NotifyEmail, port.ExportNotification{
		RowCount:     result.RowCount,
		ColumnCount:  len(result.Schema.Columns),
		InventedKeys: result.Schema.InventedKeys,
		DownloadURL:  result.Location,
	})
	if err != nil {
		s.logger.Warn("service.exportService.notify: email failed",
			zap.String("to", s.cfg.Export.NotifyEmail), zap.Error(err))
	}
}
