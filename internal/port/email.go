package port

import "context"

// ExportNotification describes a finished export for the notification email.
type ExportNotification struct {
	RowCount     int
	ColumnCount  int
	InventedKeys []string
	DownloadURL  string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendExportReadyEmail(ctx context.Context, toEmail string, n ExportNotification) error
}
