package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	AssetBackendLocal = "local"
	AssetBackendGCS   = "gcs"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"portfolio.db"`

	AssetBackend       string `env:"ASSET_BACKEND" envDefault:"local"`
	AssetRoot          string `env:"ASSET_ROOT" envDefault:"./wwwroot/uploads"`
	AssetPublicPath    string `env:"ASSET_PUBLIC_PATH" envDefault:"/uploads"`
	GCSBucket          string `env:"GCS_BUCKET"`
	GCSPrefix          string `env:"GCS_PREFIX" envDefault:"uploads"`
	GCSCredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
	MaxUploadBytes     int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	RedisURL          string        `env:"REDIS_URL"`
	PortfolioCacheTTL time.Duration `env:"PORTFOLIO_CACHE_TTL" envDefault:"5m"`

	JWTSecret         string        `env:"JWT_SECRET" envDefault:"change-me-jwt-secret"`
	JWTTTL            time.Duration `env:"JWT_TTL" envDefault:"12h"`
	AdminEmail        string        `env:"ADMIN_EMAIL"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.AssetBackend = strings.ToLower(strings.TrimSpace(cfg.AssetBackend))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.PortfolioCacheTTL <= 0 {
		return fmt.Errorf("PORTFOLIO_CACHE_TTL must be > 0")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}
	if !strings.HasPrefix(cfg.AssetPublicPath, "/") {
		return fmt.Errorf("ASSET_PUBLIC_PATH must start with /")
	}

	switch cfg.AssetBackend {
	case AssetBackendLocal:
		if strings.TrimSpace(cfg.AssetRoot) == "" {
			return fmt.Errorf("ASSET_ROOT must not be empty")
		}
	case AssetBackendGCS:
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return fmt.Errorf("GCS_BUCKET is required when ASSET_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("ASSET_BACKEND must be one of: local, gcs")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(cfg.AdminEmail) == "" || strings.TrimSpace(cfg.AdminPasswordHash) == "" {
			return fmt.Errorf("in prod/release ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set")
		}
	}

	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
