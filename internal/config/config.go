package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v10"
)

const (
	// StoreDriverPostgres selects the relational store (default).
	StoreDriverPostgres = "postgres"
	// StoreDriverMongo selects the document store.
	StoreDriverMongo = "mongo"
)

// SiteConfig holds the site and build-tool settings: where the site is served,
// where its assets live and how the end-to-end suite is started.
type SiteConfig struct {
	Addr       string `env:"SITE_ADDR" envDefault:"0.0.0.0:3000"`
	ReloadPort int    `env:"RELOAD_PORT" envDefault:"3001"`
	Root       string `env:"SITE_ROOT" envDefault:"public"`
	StyleFile  string `env:"STYLE_FILE" envDefault:"style/tailwind.css"`
	End2EndCmd string `env:"END2END_CMD" envDefault:"npx playwright test"`
	End2EndDir string `env:"END2END_DIR" envDefault:"end2end"`
}

// DatabaseConfig holds PostgreSQL database connection settings.
// URL, when set, takes precedence over the individual fields.
type DatabaseConfig struct {
	URL                string `env:"DATABASE_URL"`
	Host               string `env:"DB_HOST"`
	Port               string `env:"DB_PORT" envDefault:"5432"`
	User               string `env:"DB_USER"`
	Password           string `env:"DB_PASSWORD"`
	Name               string `env:"DB_NAME"`
	SSLMode            string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetimeSec int    `env:"DB_CONN_MAX_LIFETIME_SEC" envDefault:"300"`
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI         string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database    string `env:"MONGO_DATABASE" envDefault:"dafoerum"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE" envDefault:"20"`
}

// MinIOConfig holds object storage settings for post attachments.
// Attachments are disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"dafoerum-attachments"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

// TracingConfig holds the OpenTelemetry settings, read from the standard
// OTEL_* variables.
type TracingConfig struct {
	Disabled       bool   `env:"OTEL_SDK_DISABLED" envDefault:"false"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"dafoerum"`
	Protocol       string `env:"OTEL_EXPORTER_OTLP_PROTOCOL" envDefault:"grpc"`
	Endpoint       string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TracesEndpoint string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	Sampler        string `env:"OTEL_TRACES_SAMPLER" envDefault:"parentbased_traceidratio"`
	SamplerArg     string `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1.0"`
}

// ExporterEndpoint is the traces endpoint, falling back to the shared one.
func (t TracingConfig) ExporterEndpoint() string {
	if t.TracesEndpoint != "" {
		return t.TracesEndpoint
	}
	return t.Endpoint
}

// RedisConfig holds cache and rate limit settings.
// Both features fall back to no-ops when URL is empty.
type RedisConfig struct {
	URL            string        `env:"REDIS_URL"`
	LatestPostsTTL time.Duration `env:"LATEST_POSTS_TTL" envDefault:"30s"`
	WriteRate      int           `env:"RATE_LIMIT_WRITE_RPS" envDefault:"1"`
	WriteBurst     int           `env:"RATE_LIMIT_WRITE_BURST" envDefault:"5"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables; a .env file is picked up by
// importing _ "github.com/joho/godotenv/autoload" in main.
type AppConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DisplayTZ   string `env:"DISPLAY_TZ" envDefault:"Europe/Berlin"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	Site     SiteConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Tracing  TracingConfig
}

// Load parses environment variables into an AppConfig and validates it.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the env parser cannot.
func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMongo:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want %q or %q", c.StoreDriver, StoreDriverPostgres, StoreDriverMongo)
	}
	if c.Site.ReloadPort <= 0 || c.Site.ReloadPort > 65535 {
		return fmt.Errorf("invalid RELOAD_PORT %d", c.Site.ReloadPort)
	}
	if _, _, err := net.SplitHostPort(c.Site.Addr); err != nil {
		return fmt.Errorf("invalid SITE_ADDR %q: %w", c.Site.Addr, err)
	}
	if _, err := time.LoadLocation(c.DisplayTZ); err != nil {
		return fmt.Errorf("invalid DISPLAY_TZ %q: %w", c.DisplayTZ, err)
	}
	return nil
}

// IsDevelopment reports whether hot reload and other dev helpers are enabled.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Location returns the display time zone. Validate guarantees it loads.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReloadAddr is the listen address of the hot reload server: the site host
// with the reload port.
func (s SiteConfig) ReloadAddr() string {
	host, _, err := net.SplitHostPort(s.Addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, strconv.Itoa(s.ReloadPort))
}
