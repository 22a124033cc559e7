package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds settings for both the storefront and the catalog service.
type Config struct {
	Storefront Storefront `yaml:"storefront"`
	Catalog    Catalog    `yaml:"catalog"`
	Log        Log        `yaml:"log"`
}

type Storefront struct {
	Port           string        `yaml:"port"`
	CatalogURL     string        `yaml:"catalog_url"`
	ImageBaseURL   string        `yaml:"image_base_url"`
	SessionSecret  string        `yaml:"session_secret"`
	SellerID       int           `yaml:"seller_id"` // placeholder until sellers authenticate
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type Catalog struct {
	Port      string `yaml:"port"`
	DSN       string `yaml:"dsn"`
	ImagesDir string `yaml:"images_dir"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// Default returns the development settings: storefront on :8080 talking to
// the catalog on :3000 backed by a local sqlite file.
func Default() Config {
	return Config{
		Storefront: Storefront{
			Port:           "8080",
			CatalogURL:     "http://localhost:3000",
			SessionSecret:  "dev_fallback_secret",
			SellerID:       2,
			RequestTimeout: 10 * time.Second,
		},
		Catalog: Catalog{
			Port:      "3000",
			DSN:       "catalog.db",
			ImagesDir: "images",
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. .env files are read from the current folder and
// its parents so the binary works when started from cmd/server.
func Load(path string) (*Config, error) {
	_ = godotenv.Overload(".env", "../.env", "../../.env")

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Storefront.ImageBaseURL == "" {
		cfg.Storefront.ImageBaseURL = cfg.Storefront.CatalogURL
	}
	cfg.Storefront.CatalogURL = strings.TrimRight(cfg.Storefront.CatalogURL, "/")
	cfg.Storefront.ImageBaseURL = strings.TrimRight(cfg.Storefront.ImageBaseURL, "/")
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Storefront.Port, "APP_PORT")
	setString(&c.Storefront.CatalogURL, "CATALOG_URL")
	setString(&c.Storefront.ImageBaseURL, "IMAGE_BASE_URL")
	setString(&c.Storefront.SessionSecret, "SESSION_SECRET")
	setString(&c.Catalog.Port, "CATALOG_PORT")
	setString(&c.Catalog.DSN, "DB_DSN")
	setString(&c.Catalog.ImagesDir, "IMAGES_DIR")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("SELLER_ID"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SELLER_ID: %w", err)
		}
		c.Storefront.SellerID = n
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		c.Storefront.RequestTimeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the settings the storefront needs.
func (s Storefront) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("storefront port is required")
	}
	if s.CatalogURL == "" {
		return fmt.Errorf("catalog_url is required")
	}
	if s.SessionSecret == "" {
		return fmt.Errorf("session_secret is required")
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

// Validate checks the settings the catalog service needs.
func (c Catalog) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("catalog port is required")
	}
	if c.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if c.ImagesDir == "" {
		return fmt.Errorf("images_dir is required")
	}
	return nil
}

// NewLogger builds the process logger.
func (l Log) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
