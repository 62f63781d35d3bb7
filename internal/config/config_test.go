package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.AppAddr)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, int64(50<<20), cfg.UploadMaxBytes)
	assert.False(t, cfg.IsProduction())
}

func TestLoadGeneratesSecretOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".sk")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_SECRET_FILE", path)

	first, err := Load()
	require.NoError(t, err)
	assert.Len(t, first.JWTSecret, 64)

	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first.JWTSecret, string(stored))

	second, err := Load()
	require.NoError(t, err)
	assert.Equal(t, first.JWTSecret, second.JWTSecret)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_IN", "tomorrow")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_EXPIRES_IN", "1h")
	t.Setenv("UPLOAD_MAX_BYTES", "0")
	_, err = Load()
	assert.Error(t, err)
}
