package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	ServerAddr  string `mapstructure:"SERVER_ADDR"`
	AppEnv      string `mapstructure:"APP_ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	TokenTTL           time.Duration `mapstructure:"TOKEN_TTL"`
	TokenRatePerMinute int           `mapstructure:"TOKEN_RATE_PER_MINUTE"`

	FeedPageSize int           `mapstructure:"FEED_PAGE_SIZE"`
	FeedCacheTTL time.Duration `mapstructure:"FEED_CACHE_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MediaBackend       string `mapstructure:"MEDIA_BACKEND"`
	MediaRoot          string `mapstructure:"MEDIA_ROOT"`
	MediaBaseURL       string `mapstructure:"MEDIA_BASE_URL"`
	MinioEndpoint      string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey     string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey     string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket        string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL        bool   `mapstructure:"MINIO_USE_SSL"`
	MinioPublicURL     string `mapstructure:"MINIO_PUBLIC_URL"`
	ProfileImageMaxDim int    `mapstructure:"PROFILE_IMAGE_MAX_DIM"`
	UploadMaxBytes     int64  `mapstructure:"UPLOAD_MAX_BYTES"`
}

const (
	MediaBackendLocal = "local"
	MediaBackendMinio = "minio"
)

var defaults = map[string]any{
	"DATABASE_URL":          "",
	"JWT_SECRET":            "",
	"SERVER_ADDR":           ":8080",
	"APP_ENV":               "development",
	"LOG_LEVEL":             "info",
	"TOKEN_TTL":             "24h",
	"TOKEN_RATE_PER_MINUTE": 20,
	"FEED_PAGE_SIZE":        10,
	"FEED_CACHE_TTL":        "3m",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"MEDIA_BACKEND":         MediaBackendLocal,
	"MEDIA_ROOT":            "media",
	"MEDIA_BASE_URL":        "/media",
	"MINIO_ENDPOINT":        "",
	"MINIO_ACCESS_KEY":      "",
	"MINIO_SECRET_KEY":      "",
	"MINIO_BUCKET":          "insta-clone",
	"MINIO_USE_SSL":         false,
	"MINIO_PUBLIC_URL":      "",
	"PROFILE_IMAGE_MAX_DIM": 1080,
	"UPLOAD_MAX_BYTES":      20 << 20,
}

// LoadConfig loads the configuration from a .env file and environment variables.
// Environment variables take precedence over the file.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.FeedPageSize <= 0 {
		return fmt.Errorf("FEED_PAGE_SIZE must be positive")
	}
	if c.FeedCacheTTL <= 0 {
		return fmt.Errorf("FEED_CACHE_TTL must be positive")
	}
	switch c.MediaBackend {
	case MediaBackendLocal:
	case MediaBackendMinio:
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio media backend")
		}
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND %q", c.MediaBackend)
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
