package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelConfig_PrimaryConfig_LegacyFallback(t *testing.T) {
	cfg := ModelConfig{
		Provider:     "claude",
		APIKey:       "sk-legacy",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "claude", primary.Provider)
	assert.Equal(t, "sk-legacy", primary.APIKey)
	assert.Equal(t, "claude-sonnet-4-20250514", primary.DefaultModel)
	assert.Equal(t, 30, primary.TimeoutSecs)
}

func TestModelConfig_PrimaryConfig_ExplicitPrimary(t *testing.T) {
	cfg := ModelConfig{
		Provider: "legacy-should-be-ignored",
		Primary: ModelProviderConfig{
			Provider:     "openai",
			APIKey:       "sk-primary",
			DefaultModel: "gpt-4o-mini",
		},
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "openai", primary.Provider)
	assert.Equal(t, "sk-primary", primary.APIKey)
	assert.Equal(t, "gpt-4o-mini", primary.DefaultModel)
}

func TestModelConfig_SecondaryConfig(t *testing.T) {
	cfg := ModelConfig{Provider: "gemini"}
	assert.Nil(t, cfg.SecondaryConfig())

	cfg.Secondary = ModelProviderConfig{Provider: "vertex", Project: "feedgen-prod"}
	secondary := cfg.SecondaryConfig()
	require.NotNil(t, secondary)
	assert.Equal(t, "vertex", secondary.Provider)
	assert.Equal(t, "feedgen-prod", secondary.Project)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Feed.Store)
	assert.Equal(t, "id", cfg.Feed.IDColumn)
	assert.Equal(t, "new_", cfg.Export.InventedPrefix)
	assert.Equal(t, 3, cfg.Pipeline.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.RateLimitDelay)
	assert.Equal(t, 10, cfg.Pipeline.MaxRateLimitWaits)
	assert.True(t, cfg.Pipeline.GenerateTitles)
	assert.False(t, cfg.Pipeline.DirectTitle)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FEEDGEN_PIPELINE_DIRECT_TITLE", "true")
	t.Setenv("FEEDGEN_PIPELINE_ALLOWED_WORDS", "Size, Pack ,")
	t.Setenv("FEEDGEN_MODEL_PRIMARY_PROVIDER", "openai")
	t.Setenv("FEEDGEN_FEED_STORE", "xlsx")
	t.Setenv("FEEDGEN_PIPELINE_MIN_APPROVAL_SCORE", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Pipeline.DirectTitle)
	assert.Equal(t, []string{"Size", "Pack"}, cfg.Pipeline.AllowedWords)
	assert.Equal(t, "openai", cfg.Model.PrimaryConfig().Provider)
	assert.Equal(t, "xlsx", cfg.Feed.Store)
	assert.Equal(t, 1.0, cfg.Pipeline.MinApprovalScore)
}

func TestLoad_PortFromPlatform(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("FEEDGEN_FEED_STORE", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Feed:     FeedConfig{Store: "xlsx", IDColumn: "id"},
		Pipeline: PipelineConfig{MaxRetries: 3, Concurrency: 1},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Pipeline.Concurrency = 0
	assert.Error(t, cfg.Validate())
}
