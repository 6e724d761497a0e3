package noop

import (
	"context"

	"go.uber.org/zap"

	"feedgen/internal/port"
)

type noopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that logs notifications instead of sending them.
func NewNoopSender(logger *zap.Logger) port.EmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noopSender{logger: logger}
}

func (s *noopSender) SendExportReadyEmail(_ context.Context, toEmail string, n port.ExportNotification) error {
	s.logger.Info("[NOOP EMAIL] export ready",
		zap.String("to", toEmail),
		zap.Int("rows", n.RowCount),
		zap.Int("columns", n.ColumnCount),
		zap.Strings("invented_keys", n.InventedKeys),
		zap.String("download_url", n.DownloadURL),
	)
	return nil
}
