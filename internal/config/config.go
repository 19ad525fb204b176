package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	CORS      CORSConfig
	Extractor ExtractorConfig
	Cache     CacheConfig
	Publisher PublisherConfig
	Mint      MintConfig
	Display   DisplayConfig
	Pipeline  PipelineConfig
	DB        DBConfig
	Notify    NotifyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractorProviderConfig holds settings for a single inference provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	// ProjectID and Location are only read by the vertex provider.
	ProjectID string `mapstructure:"project_id"`
	Location  string `mapstructure:"location"`
}

// ExtractorConfig holds structured-extraction settings. Secondary and tertiary
// providers are tried in order when the previous one fails.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// Chain returns the configured providers in fallback order. The primary is always present.
func (e *ExtractorConfig) Chain() []*ExtractorProviderConfig {
	chain := []*ExtractorProviderConfig{&e.Primary}
	if e.Secondary.Provider != "" {
		chain = append(chain, &e.Secondary)
	}
	if e.Tertiary.Provider != "" {
		chain = append(chain, &e.Tertiary)
	}
	return chain
}

// CacheConfig holds the extraction result cache settings.
type CacheConfig struct {
	Provider string        `mapstructure:"provider"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// PinataConfig holds Pinata pinning service credentials and endpoints.
type PinataConfig struct {
	APIKey    string `mapstructure:"api_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"`
	Gateway   string `mapstructure:"gateway"`
}

// S3Config holds AWS S3 settings for content-addressed publishing.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Prefix        string `mapstructure:"prefix"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// GCSConfig holds Google Cloud Storage settings for content-addressed publishing.
type GCSConfig struct {
	Bucket        string `mapstructure:"bucket"`
	Prefix        string `mapstructure:"prefix"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// PublisherConfig selects and configures the content-addressable publisher.
type PublisherConfig struct {
	Provider string       `mapstructure:"provider"`
	Pinata   PinataConfig `mapstructure:"pinata"`
	S3       S3Config     `mapstructure:"s3"`
	GCS      GCSConfig    `mapstructure:"gcs"`
}

// MintConfig describes how the external minting executable is invoked.
type MintConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	WorkDir string   `mapstructure:"workdir"`
	// Env holds extra KEY=VALUE pairs appended to the process environment.
	Env     []string      `mapstructure:"env"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DisplayConfig holds the fixed display fields written into every attestation.
type DisplayConfig struct {
	NamePrefix  string `mapstructure:"name_prefix"`
	Description string `mapstructure:"description"`
	ImageURL    string `mapstructure:"image_url"`
}

// PipelineConfig holds per-stage timeouts. Zero disables the stage timeout.
type PipelineConfig struct {
	ExtractTimeout time.Duration `mapstructure:"extract_timeout"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// DBConfig holds PostgreSQL connection settings for the pending-mint registry.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
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

// NotifyConfig holds operator alert settings.
type NotifyConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	ToAddress   string `mapstructure:"to_address"`
}

// Load reads configuration from an optional .env file and environment variables with the ARIA_ prefix.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ARIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5001")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "*")

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "gemini")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "gemini-2.5-pro")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.primary.location", "us-central1")
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.location", "us-central1")
	v.SetDefault("extractor.tertiary.provider", "")
	v.SetDefault("extractor.tertiary.timeout_secs", 120)
	v.SetDefault("extractor.tertiary.location", "us-central1")

	// Cache defaults
	v.SetDefault("cache.provider", "none")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.prefix", "aria:extract:")

	// Publisher defaults
	v.SetDefault("publisher.provider", "pinata")
	v.SetDefault("publisher.pinata.endpoint", "https://api.pinata.cloud/pinning/pinJSONToIPFS")
	v.SetDefault("publisher.pinata.gateway", "https://gateway.pinata.cloud")
	v.SetDefault("publisher.s3.region", "us-east-1")
	v.SetDefault("publisher.s3.prefix", "attestations/")
	v.SetDefault("publisher.gcs.prefix", "attestations/")

	// Mint defaults
	v.SetDefault("mint.command", "node")
	v.SetDefault("mint.args", "mint_helper.cjs")
	v.SetDefault("mint.workdir", "")
	v.SetDefault("mint.env", "")
	v.SetDefault("mint.timeout", "120s")

	// Display defaults
	v.SetDefault("display.name_prefix", "AI Verified RWA: ")
	v.SetDefault("display.description", "An RWA verified by A.R.I.A.")
	v.SetDefault("display.image_url", "https://gateway.pinata.cloud/ipfs/Qma5Fpw3Y2jL6vAacgEAA418f2f2KJEaJkkhq2tYmS3a1V")

	// Pipeline defaults
	v.SetDefault("pipeline.extract_timeout", "180s")
	v.SetDefault("pipeline.publish_timeout", "60s")

	// DB defaults
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "aria")
	v.SetDefault("db.password", "aria_secret")
	v.SetDefault("db.name", "aria_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "us-east-1")
	v.SetDefault("notify.from_address", "noreply@aria.local")
	v.SetDefault("notify.to_address", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "ARIA_SERVER_PORT",
		"server.read_timeout":               "ARIA_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "ARIA_SERVER_WRITE_TIMEOUT",
		"server.environment":                "ARIA_SERVER_ENVIRONMENT",
		"server.max_upload_mb":              "ARIA_SERVER_MAX_UPLOAD_MB",
		"log.level":                         "ARIA_LOG_LEVEL",
		"log.format":                        "ARIA_LOG_FORMAT",
		"cors.allowed_origins":              "ARIA_CORS_ALLOWED_ORIGINS",
		"extractor.primary.provider":        "ARIA_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "ARIA_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "ARIA_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":    "ARIA_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.primary.project_id":      "ARIA_EXTRACTOR_PRIMARY_PROJECT_ID",
		"extractor.primary.location":        "ARIA_EXTRACTOR_PRIMARY_LOCATION",
		"extractor.secondary.provider":      "ARIA_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "ARIA_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "ARIA_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs":  "ARIA_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"extractor.secondary.project_id":    "ARIA_EXTRACTOR_SECONDARY_PROJECT_ID",
		"extractor.secondary.location":      "ARIA_EXTRACTOR_SECONDARY_LOCATION",
		"extractor.tertiary.provider":       "ARIA_EXTRACTOR_TERTIARY_PROVIDER",
		"extractor.tertiary.api_key":        "ARIA_EXTRACTOR_TERTIARY_API_KEY",
		"extractor.tertiary.default_model":  "ARIA_EXTRACTOR_TERTIARY_DEFAULT_MODEL",
		"extractor.tertiary.timeout_secs":   "ARIA_EXTRACTOR_TERTIARY_TIMEOUT_SECS",
		"extractor.tertiary.project_id":     "ARIA_EXTRACTOR_TERTIARY_PROJECT_ID",
		"extractor.tertiary.location":       "ARIA_EXTRACTOR_TERTIARY_LOCATION",
		"cache.provider":                    "ARIA_CACHE_PROVIDER",
		"cache.addr":                        "ARIA_CACHE_ADDR",
		"cache.password":                    "ARIA_CACHE_PASSWORD",
		"cache.db":                          "ARIA_CACHE_DB",
		"cache.ttl":                         "ARIA_CACHE_TTL",
		"cache.prefix":                      "ARIA_CACHE_PREFIX",
		"publisher.provider":                "ARIA_PUBLISHER_PROVIDER",
		"publisher.pinata.api_key":          "ARIA_PUBLISHER_PINATA_API_KEY",
		"publisher.pinata.secret_key":       "ARIA_PUBLISHER_PINATA_SECRET_KEY",
		"publisher.pinata.endpoint":         "ARIA_PUBLISHER_PINATA_ENDPOINT",
		"publisher.pinata.gateway":          "ARIA_PUBLISHER_PINATA_GATEWAY",
		"publisher.s3.region":               "ARIA_PUBLISHER_S3_REGION",
		"publisher.s3.bucket":               "ARIA_PUBLISHER_S3_BUCKET",
		"publisher.s3.endpoint":             "ARIA_PUBLISHER_S3_ENDPOINT",
		"publisher.s3.access_key":           "ARIA_PUBLISHER_S3_ACCESS_KEY",
		"publisher.s3.secret_key":           "ARIA_PUBLISHER_S3_SECRET_KEY",
		"publisher.s3.prefix":               "ARIA_PUBLISHER_S3_PREFIX",
		"publisher.s3.public_base_url":      "ARIA_PUBLISHER_S3_PUBLIC_BASE_URL",
		"publisher.gcs.bucket":              "ARIA_PUBLISHER_GCS_BUCKET",
		"publisher.gcs.prefix":              "ARIA_PUBLISHER_GCS_PREFIX",
		"publisher.gcs.public_base_url":     "ARIA_PUBLISHER_GCS_PUBLIC_BASE_URL",
		"mint.command":                      "ARIA_MINT_COMMAND",
		"mint.args":                         "ARIA_MINT_ARGS",
		"mint.workdir":                      "ARIA_MINT_WORKDIR",
		"mint.env":                          "ARIA_MINT_ENV",
		"mint.timeout":                      "ARIA_MINT_TIMEOUT",
		"display.name_prefix":               "ARIA_DISPLAY_NAME_PREFIX",
		"display.description":               "ARIA_DISPLAY_DESCRIPTION",
		"display.image_url":                 "ARIA_DISPLAY_IMAGE_URL",
		"pipeline.extract_timeout":          "ARIA_PIPELINE_EXTRACT_TIMEOUT",
		"pipeline.publish_timeout":          "ARIA_PIPELINE_PUBLISH_TIMEOUT",
		"db.enabled":                        "ARIA_DB_ENABLED",
		"db.host":                           "ARIA_DB_HOST",
		"db.port":                           "ARIA_DB_PORT",
		"db.user":                           "ARIA_DB_USER",
		"db.password":                       "ARIA_DB_PASSWORD",
		"db.name":                           "ARIA_DB_NAME",
		"db.sslmode":                        "ARIA_DB_SSLMODE",
		"db.max_open":                       "ARIA_DB_MAX_OPEN",
		"db.max_idle":                       "ARIA_DB_MAX_IDLE",
		"notify.provider":                   "ARIA_NOTIFY_PROVIDER",
		"notify.region":                     "ARIA_NOTIFY_REGION",
		"notify.from_address":               "ARIA_NOTIFY_FROM_ADDRESS",
		"notify.to_address":                 "ARIA_NOTIFY_TO_ADDRESS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if ARIA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ARIA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins"), ","),
	}

	cfg.Extractor = ExtractorConfig{
		Primary:   providerConfig(v, "extractor.primary"),
		Secondary: providerConfig(v, "extractor.secondary"),
		Tertiary:  providerConfig(v, "extractor.tertiary"),
	}
	// The unprefixed key is what existing deployments put in their .env.
	if cfg.Extractor.Primary.APIKey == "" && cfg.Extractor.Primary.Provider == "gemini" {
		cfg.Extractor.Primary.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg.Cache = CacheConfig{
		Provider: v.GetString("cache.provider"),
		Addr:     v.GetString("cache.addr"),
		Password: v.GetString("cache.password"),
		DB:       v.GetInt("cache.db"),
		TTL:      v.GetDuration("cache.ttl"),
		Prefix:   v.GetString("cache.prefix"),
	}

	cfg.Publisher = PublisherConfig{
		Provider: v.GetString("publisher.provider"),
		Pinata: PinataConfig{
			APIKey:    firstNonEmpty(v.GetString("publisher.pinata.api_key"), os.Getenv("PINATA_API_KEY")),
			SecretKey: firstNonEmpty(v.GetString("publisher.pinata.secret_key"), os.Getenv("PINATA_SECRET_API_KEY")),
			Endpoint:  v.GetString("publisher.pinata.endpoint"),
			Gateway:   strings.TrimRight(v.GetString("publisher.pinata.gateway"), "/"),
		},
		S3: S3Config{
			Region:        v.GetString("publisher.s3.region"),
			Bucket:        v.GetString("publisher.s3.bucket"),
			Endpoint:      v.GetString("publisher.s3.endpoint"),
			AccessKey:     v.GetString("publisher.s3.access_key"),
			SecretKey:     v.GetString("publisher.s3.secret_key"),
			Prefix:        v.GetString("publisher.s3.prefix"),
			PublicBaseURL: strings.TrimRight(v.GetString("publisher.s3.public_base_url"), "/"),
		},
		GCS: GCSConfig{
			Bucket:        v.GetString("publisher.gcs.bucket"),
			Prefix:        v.GetString("publisher.gcs.prefix"),
			PublicBaseURL: strings.TrimRight(v.GetString("publisher.gcs.public_base_url"), "/"),
		},
	}

	cfg.Mint = MintConfig{
		Command: v.GetString("mint.command"),
		Args:    splitList(v.GetString("mint.args"), " "),
		WorkDir: v.GetString("mint.workdir"),
		Env:     splitList(v.GetString("mint.env"), ","),
		Timeout: v.GetDuration("mint.timeout"),
	}

	cfg.Display = DisplayConfig{
		NamePrefix:  v.GetString("display.name_prefix"),
		Description: v.GetString("display.description"),
		ImageURL:    v.GetString("display.image_url"),
	}

	cfg.Pipeline = PipelineConfig{
		ExtractTimeout: v.GetDuration("pipeline.extract_timeout"),
		PublishTimeout: v.GetDuration("pipeline.publish_timeout"),
	}

	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}

	cfg.Notify = NotifyConfig{
		Provider:    v.GetString("notify.provider"),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		ToAddress:   v.GetString("notify.to_address"),
	}

	if cfg.Mint.Command == "" {
		return nil, fmt.Errorf("mint.command must not be empty")
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ExtractorProviderConfig {
	return ExtractorProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
		ProjectID:    v.GetString(prefix + ".project_id"),
		Location:     v.GetString(prefix + ".location"),
	}
}

func splitList(raw, sep string) []string {
	var out []string
	for _, s := range strings.Split(raw, sep) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
