package app_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedgen/internal/app"
	"feedgen/internal/config"
)

func workbookConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Feed: config.FeedConfig{
			Store:          "xlsx",
			WorkbookPath:   filepath.Join(t.TempDir(), "feed.xlsx"),
			InputSheet:     "Input Feed",
			GeneratedSheet: "Generated Validation",
			OutputSheet:    "Output Feed",
			IDColumn:       "id",
		},
		Model: config.ModelConfig{
			Provider:     "gemini",
			APIKey:       "test-key",
			DefaultModel: "gemini-2.0-flash",
			TimeoutSecs:  30,
		},
		Pipeline: config.PipelineConfig{
			GenerateTitles: true,
			MaxRetries:     1,
			Concurrency:    1,
			UseWebsite:     true,
		},
		Email: config.EmailConfig{Provider: "noop"},
	}
}

func TestNew_WorkbookStore(t *testing.T) {
	a, err := app.New(workbookConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.Generation)
	assert.NotNil(t, a.Approvals)
	assert.NotNil(t, a.Exports)
	assert.Empty(t, a.Checks)
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := workbookConfig(t)
	cfg.Model.Provider = "carrier-pigeon"

	_, err := app.New(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestOpenStore_Workbook(t *testing.T) {
	store, closeFn, ping, err := app.OpenStore(workbookConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.Nil(t, closeFn)
	assert.Nil(t, ping)
}
