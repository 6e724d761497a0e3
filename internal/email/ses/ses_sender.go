package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"feedgen/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendExportReadyEmail(ctx context.Context, toEmail string, n port.ExportNotification) error {
	subject := fmt.Sprintf("Feed export ready: %d rows", n.RowCount)
	htmlBody := buildExportReadyHTML(n)
	textBody := buildExportReadyText(n)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildExportReadyText(n port.ExportNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The output feed has been exported with %d approved rows and %d columns.\n", n.RowCount, n.ColumnCount)
	if len(n.InventedKeys) > 0 {
		fmt.Fprintf(&b, "\nNew attribute columns: %s\n", strings.Join(n.InventedKeys, ", "))
	}
	if n.DownloadURL != "" {
		fmt.Fprintf(&b, "\nDownload:\n%s\n", n.DownloadURL)
	}
	b.WriteString("\nFeedGen")
	return b.String()
}

func buildExportReadyHTML(n port.ExportNotification) string {
	newColumns := ""
	if len(n.InventedKeys) > 0 {
		escaped := make([]string, len(n.InventedKeys))
		for i, k := range n.InventedKeys {
			escaped[i] = html.EscapeString(k)
		}
		newColumns = fmt.Sprintf(`  <p>New attribute columns: <strong>%s</strong></p>
`, strings.Join(escaped, ", "))
	}

	download := ""
	if n.DownloadURL != "" {
		u := html.EscapeString(n.DownloadURL)
		download = fmt.Sprintf(`  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download CSV</a>
  </p>
  <p style="word-break: break-all; color: #666;">%s</p>
`, u, u)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your feed export is ready</h2>
  <p>The output feed was exported with <strong>%d</strong> approved rows and <strong>%d</strong> columns.</p>
%s%s  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">FeedGen - Product Feed Optimization</p>
</body>
</html>`, n.RowCount, n.ColumnCount, newColumns, download)
}
