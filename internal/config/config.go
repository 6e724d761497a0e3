package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Log      LogConfig
	Model    ModelConfig
	Redis    RedisConfig
	Pipeline PipelineConfig
	Feed     FeedConfig
	Export   ExportConfig
	Email    EmailConfig
	CORS     CORSConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ModelProviderConfig holds settings for a single language model provider.
type ModelProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	Project      string `mapstructure:"project"`
	Location     string `mapstructure:"location"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ModelConfig holds language model settings with primary/secondary provider support.
type ModelConfig struct {
	// Legacy flat fields, used when no primary provider is set.
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	// Model ids passed to the provider per task. Empty means the provider default.
	TitleModelID       string `mapstructure:"title_model_id"`
	DescriptionModelID string `mapstructure:"description_model_id"`

	Primary   ModelProviderConfig `mapstructure:"primary"`
	Secondary ModelProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (m *ModelConfig) PrimaryConfig() *ModelProviderConfig {
	if m.Primary.Provider != "" {
		return &m.Primary
	}
	return &ModelProviderConfig{
		Provider:     m.Provider,
		APIKey:       m.APIKey,
		DefaultModel: m.DefaultModel,
		TimeoutSecs:  m.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (m *ModelConfig) SecondaryConfig() *ModelProviderConfig {
	if m.Secondary.Provider != "" {
		return &m.Secondary
	}
	return nil
}

// RedisConfig holds settings for the page-content cache.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// PipelineConfig holds generation pipeline switches and thresholds.
type PipelineConfig struct {
	GenerateTitles        bool `mapstructure:"generate_titles"`
	GenerateDescriptions  bool `mapstructure:"generate_descriptions"`
	DirectTitle           bool `mapstructure:"direct_title"`
	PreferGeneratedValues bool `mapstructure:"prefer_generated_values"`
	HonorReplacedKeys     bool `mapstructure:"honor_replaced_keys"`
	UseImages             bool `mapstructure:"use_images"`
	UseWebsite            bool `mapstructure:"use_website"`

	AllowedWords []string `mapstructure:"allowed_words"`

	MaxRetries        int           `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	RateLimitDelay    time.Duration `mapstructure:"rate_limit_delay"`
	MaxRateLimitWaits int           `mapstructure:"max_rate_limit_waits"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	Concurrency       int           `mapstructure:"concurrency"`
	BatchSize         int           `mapstructure:"batch_size"`

	MinApprovalScore    float64 `mapstructure:"min_approval_score"`
	MinDescriptionScore float64 `mapstructure:"min_description_score"`

	TitlePromptPrefix       string `mapstructure:"title_prompt_prefix"`
	DescriptionPromptPrefix string `mapstructure:"description_prompt_prefix"`
}

// FeedConfig describes where feed sheets live and which columns carry which fields.
type FeedConfig struct {
	Store             string `mapstructure:"store"`
	WorkbookPath      string `mapstructure:"workbook_path"`
	InputSheet        string `mapstructure:"input_sheet"`
	GeneratedSheet    string `mapstructure:"generated_sheet"`
	OutputSheet       string `mapstructure:"output_sheet"`
	IDColumn          string `mapstructure:"id_column"`
	TitleColumn       string `mapstructure:"title_column"`
	DescriptionColumn string `mapstructure:"description_column"`
	ImageColumn       string `mapstructure:"image_column"`
	WebsiteColumn     string `mapstructure:"website_column"`
}

// ExportConfig holds export artifact settings.
type ExportConfig struct {
	InventedPrefix string `mapstructure:"invented_prefix"`
	Upload         bool   `mapstructure:"upload"`
	KeyPrefix      string `mapstructure:"key_prefix"`
	NotifyEmail    string `mapstructure:"notify_email"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the FEEDGEN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FEEDGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Bind environment variables explicitly for nested keys
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key, envName(key))
	}

	cfg := &Config{}

	// PaaS hosts set a PORT env var. Use it if FEEDGEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FEEDGEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Model = ModelConfig{
		Provider:           v.GetString("model.provider"),
		APIKey:             v.GetString("model.api_key"),
		DefaultModel:       v.GetString("model.default_model"),
		TimeoutSecs:        v.GetInt("model.timeout_secs"),
		TitleModelID:       v.GetString("model.title_model_id"),
		DescriptionModelID: v.GetString("model.description_model_id"),
		Primary:            providerConfig(v, "model.primary"),
		Secondary:          providerConfig(v, "model.secondary"),
	}

	cfg.Redis = RedisConfig{
		Enabled:   v.GetBool("redis.enabled"),
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}

	cfg.Pipeline = PipelineConfig{
		GenerateTitles:          v.GetBool("pipeline.generate_titles"),
		GenerateDescriptions:    v.GetBool("pipeline.generate_descriptions"),
		DirectTitle:             v.GetBool("pipeline.direct_title"),
		PreferGeneratedValues:   v.GetBool("pipeline.prefer_generated_values"),
		HonorReplacedKeys:       v.GetBool("pipeline.honor_replaced_keys"),
		UseImages:               v.GetBool("pipeline.use_images"),
		UseWebsite:              v.GetBool("pipeline.use_website"),
		AllowedWords:            splitList(v.GetString("pipeline.allowed_words")),
		MaxRetries:              v.GetInt("pipeline.max_retries"),
		RetryDelay:              v.GetDuration("pipeline.retry_delay"),
		RateLimitDelay:          v.GetDuration("pipeline.rate_limit_delay"),
		MaxRateLimitWaits:       v.GetInt("pipeline.max_rate_limit_waits"),
		RequestsPerSecond:       v.GetFloat64("pipeline.requests_per_second"),
		CacheTTL:                v.GetDuration("pipeline.cache_ttl"),
		Concurrency:             v.GetInt("pipeline.concurrency"),
		BatchSize:               v.GetInt("pipeline.batch_size"),
		MinApprovalScore:        v.GetFloat64("pipeline.min_approval_score"),
		MinDescriptionScore:     v.GetFloat64("pipeline.min_description_score"),
		TitlePromptPrefix:       v.GetString("pipeline.title_prompt_prefix"),
		DescriptionPromptPrefix: v.GetString("pipeline.description_prompt_prefix"),
	}

	cfg.Feed = FeedConfig{
		Store:             v.GetString("feed.store"),
		WorkbookPath:      v.GetString("feed.workbook_path"),
		InputSheet:        v.GetString("feed.input_sheet"),
		GeneratedSheet:    v.GetString("feed.generated_sheet"),
		OutputSheet:       v.GetString("feed.output_sheet"),
		IDColumn:          v.GetString("feed.id_column"),
		TitleColumn:       v.GetString("feed.title_column"),
		DescriptionColumn: v.GetString("feed.description_column"),
		ImageColumn:       v.GetString("feed.image_column"),
		WebsiteColumn:     v.GetString("feed.website_column"),
	}

	cfg.Export = ExportConfig{
		InventedPrefix: v.GetString("export.invented_prefix"),
		Upload:         v.GetBool("export.upload"),
		KeyPrefix:      v.GetString("export.key_prefix"),
		NotifyEmail:    v.GetString("export.notify_email"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "feedgen")
	v.SetDefault("db.password", "feedgen_secret")
	v.SetDefault("db.name", "feedgen_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "feedgen-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Model defaults (legacy flat)
	v.SetDefault("model.provider", "gemini")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.default_model", "gemini-2.0-flash")
	v.SetDefault("model.timeout_secs", 120)
	v.SetDefault("model.title_model_id", "")
	v.SetDefault("model.description_model_id", "")
	for _, slot := range []string{"primary", "secondary"} {
		v.SetDefault("model."+slot+".provider", "")
		v.SetDefault("model."+slot+".api_key", "")
		v.SetDefault("model."+slot+".default_model", "")
		v.SetDefault("model."+slot+".base_url", "")
		v.SetDefault("model."+slot+".project", "")
		v.SetDefault("model."+slot+".location", "us-central1")
		v.SetDefault("model."+slot+".timeout_secs", 120)
	}

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "feedgen:page:")

	// Pipeline defaults
	v.SetDefault("pipeline.generate_titles", true)
	v.SetDefault("pipeline.generate_descriptions", true)
	v.SetDefault("pipeline.direct_title", false)
	v.SetDefault("pipeline.prefer_generated_values", false)
	v.SetDefault("pipeline.honor_replaced_keys", true)
	v.SetDefault("pipeline.use_images", false)
	v.SetDefault("pipeline.use_website", false)
	v.SetDefault("pipeline.allowed_words", "")
	v.SetDefault("pipeline.max_retries", 3)
	v.SetDefault("pipeline.retry_delay", "1s")
	v.SetDefault("pipeline.rate_limit_delay", "30s")
	v.SetDefault("pipeline.max_rate_limit_waits", 10)
	v.SetDefault("pipeline.requests_per_second", 1.0)
	v.SetDefault("pipeline.cache_ttl", "6h")
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.batch_size", 0)
	v.SetDefault("pipeline.min_approval_score", 0.5)
	v.SetDefault("pipeline.min_description_score", 3.0)
	v.SetDefault("pipeline.title_prompt_prefix", "")
	v.SetDefault("pipeline.description_prompt_prefix", "")

	// Feed defaults
	v.SetDefault("feed.store", "postgres")
	v.SetDefault("feed.workbook_path", "feedgen.xlsx")
	v.SetDefault("feed.input_sheet", "Input Feed")
	v.SetDefault("feed.generated_sheet", "Generated Validation")
	v.SetDefault("feed.output_sheet", "Output Feed")
	v.SetDefault("feed.id_column", "id")
	v.SetDefault("feed.title_column", "title")
	v.SetDefault("feed.description_column", "description")
	v.SetDefault("feed.image_column", "image_link")
	v.SetDefault("feed.website_column", "link")

	// Export defaults
	v.SetDefault("export.invented_prefix", "new_")
	v.SetDefault("export.upload", false)
	v.SetDefault("export.key_prefix", "exports/")
	v.SetDefault("export.notify_email", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@feedgen.local")
	v.SetDefault("email.from_name", "FeedGen")
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Feed.Store != "postgres" && c.Feed.Store != "xlsx" {
		return fmt.Errorf("unsupported feed store %q (expected postgres or xlsx)", c.Feed.Store)
	}
	if c.Feed.IDColumn == "" {
		return fmt.Errorf("feed.id_column must not be empty")
	}
	if c.Pipeline.MaxRetries < 1 {
		return fmt.Errorf("pipeline.max_retries must be at least 1, got %d", c.Pipeline.MaxRetries)
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("pipeline.concurrency must be at least 1, got %d", c.Pipeline.Concurrency)
	}
	return nil
}

func envName(key string) string {
	return "FEEDGEN_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func providerConfig(v *viper.Viper, prefix string) ModelProviderConfig {
	return ModelProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		BaseURL:      v.GetString(prefix + ".base_url"),
		Project:      v.GetString(prefix + ".project"),
		Location:     v.GetString(prefix + ".location"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
	}
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
