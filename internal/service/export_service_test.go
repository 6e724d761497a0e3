package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feedgen/internal/config"
	"feedgen/internal/domain"
	"feedgen/internal/port"
	"feedgen/internal/repository/xlsx"
	"feedgen/internal/service"
	"feedgen/internal/sheets"
	"feedgen/mocks"
)

func exportConfig(upload bool, notify string) service.ExportServiceConfig {
	return service.ExportServiceConfig{
		Feed: feedConfig(),
		Export: config.ExportConfig{
			InventedPrefix: "new_",
			Upload:         upload,
			KeyPrefix:      "exports/",
			NotifyEmail:    notify,
		},
		S3: config.S3Config{Bucket: "feedgen-exports", PresignExpiry: 3600},
	}
}

func seedApproved(t *testing.T) *xlsx.SheetStore {
	t.Helper()
	store := newStore(t)
	require.NoError(t, sheets.AppendResults(context.Background(), store, feedConfig().GeneratedSheet, []*domain.GenerationResult{
		generated("A-1", domain.GenerationStatusSuccess, true, "color", "Red", "material", "Wool"),
		generated("A-2", domain.GenerationStatusSuccess, false, "pattern", "Striped"),
		generated("A-3", domain.GenerationStatusSuccess, true, "color", "Blue"),
	}))
	return store
}

func TestExportService_Export_WritesOutputSheet(t *testing.T) {
	ctx := context.Background()
	store := seedApproved(t)
	svc := service.NewExportService(store, nil, nil, exportConfig(false, ""), nil)

	result, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, []string{"color"}, result.Schema.GapKeys)
	assert.Equal(t, []string{"material"}, result.Schema.InventedKeys)
	assert.Empty(t, result.Location)

	table, err := store.ReadTable(ctx, feedConfig().OutputSheet)
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, []string{"last_modified", "id", "title", "description", "color", "new_material"}, table[0])
	assert.Equal(t, []string{"A-1", "Acme Shoe A-1", "A shoe.", "Red", "Wool"}, table[1][1:])
	assert.Equal(t, "A-3", table[2][1])
	assert.Equal(t, "Blue", table[2][4])
}

func TestExportService_Export_ReplacesPreviousOutput(t *testing.T) {
	ctx := context.Background()
	store := seedApproved(t)
	require.NoError(t, store.WriteRows(ctx, feedConfig().OutputSheet, 1, [][]string{
		{"stale"}, {"stale"}, {"stale"}, {"stale"}, {"stale"},
	}))

	_, err := service.NewExportService(store, nil, nil, exportConfig(false, ""), nil).Export(ctx)
	require.NoError(t, err)

	table, err := store.ReadTable(ctx, feedConfig().OutputSheet)
	require.NoError(t, err)
	assert.Len(t, table, 3)
}

func TestExportService_Export_UploadsAndNotifies(t *testing.T) {
	ctx := context.Background()
	store := seedApproved(t)
	storage := new(mocks.MockObjectStorage)
	sender := new(mocks.MockEmailSender)

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "feedgen-exports" && strings.HasPrefix(in.Key, "exports/feedgen_export_") && strings.HasSuffix(in.Key, ".csv")
	})).Return(&port.UploadOutput{Location: "s3://csv"}, nil).Once()
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasSuffix(in.Key, ".xlsx")
	})).Return(&port.UploadOutput{Location: "s3://xlsx"}, nil).Once()
	storage.On("GetPresignedURL", mock.Anything, "feedgen-exports", mock.AnythingOfType("string"), int64(3600)).
		Return("https://signed.example.com/export.csv", nil)
	sender.On("SendExportReadyEmail", mock.Anything, "ops@example.com", port.ExportNotification{
		RowCount:     2,
		ColumnCount:  5,
		InventedKeys: []string{"material"},
		DownloadURL:  "https://signed.example.com/export.csv",
	}).Return(nil)

	result, err := service.NewExportService(store, storage, sender, exportConfig(true, "ops@example.com"), nil).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/export.csv", result.Location)
	storage.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestExportService_Export_UploadFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := service.NewExportService(seedApproved(t), storage, nil, exportConfig(true, ""), nil).Export(context.Background())
	assert.True(t, errors.Is(err, domain.ErrUploadFailed))
}

func TestExportService_Export_PartialUploadIsRemoved(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasSuffix(in.Key, ".csv")
	})).Return(&port.UploadOutput{}, nil).Once()
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasSuffix(in.Key, ".xlsx")
	})).Return(nil, errors.New("timeout")).Once()
	storage.On("Delete", mock.Anything, "feedgen-exports", mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, ".csv")
	})).Return(nil).Once()

	_, err := service.NewExportService(seedApproved(t), storage, nil, exportConfig(true, ""), nil).Export(context.Background())
	assert.True(t, errors.Is(err, domain.ErrUploadFailed))
	storage.AssertExpectations(t)
}

func TestExportService_Export_EmailFailureDoesNotFailExport(t *testing.T) {
	sender := new(mocks.MockEmailSender)
	sender.On("SendExportReadyEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("throttled"))

	result, err := service.NewExportService(seedApproved(t), nil, sender, exportConfig(false, "ops@example.com"), nil).
		Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
	sender.AssertExpectations(t)
}

func TestExportService_Export_NoApprovedRows(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, sheets.AppendResults(ctx, store, feedConfig().GeneratedSheet, []*domain.GenerationResult{
		generated("A-1", domain.GenerationStatusSuccess, false),
	}))

	_, err := service.NewExportService(store, nil, nil, exportConfig(false, ""), nil).Export(ctx)
	assert.True(t, errors.Is(err, domain.ErrNoApprovedRows))
}

func TestExportService_WriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := service.NewExportService(seedApproved(t), nil, nil, exportConfig(false, ""), nil).
		WriteCSV(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "last_modified,id,title,description,color,new_material", strings.TrimSpace(lines[0]))
}
