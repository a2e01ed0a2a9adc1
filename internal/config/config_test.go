package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("ASSET_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, AssetBackendLocal, cfg.AssetBackend)
	assert.Equal(t, "/uploads", cfg.AssetPublicPath)
	assert.EqualValues(t, 10<<20, cfg.MaxUploadBytes)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("ASSET_BACKEND", "ftp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASSET_BACKEND")
}

func TestLoadGCSRequiresBucket(t *testing.T) {
	t.Setenv("ASSET_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GCS_BUCKET")
}

func TestLoadProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ASSET_BACKEND", "local")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_EMAIL", "me@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}

func TestLoadParsesOrigins(t *testing.T) {
	t.Setenv("ASSET_BACKEND", "local")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.dev,https://b.dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, cfg.CORSAllowedOrigins)
}
