// Package config loads runtime settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppAddr string `envconfig:"APP_ADDR" default:":5000"`

	DatabasePath string `envconfig:"DATABASE_PATH" default:"data/ideahub.db"`

	JWTSecret     string        `envconfig:"JWT_SECRET"`
	JWTSecretFile string        `envconfig:"JWT_SECRET_FILE" default:"data/.sk"`
	JWTExpiresIn  time.Duration `envconfig:"JWT_EXPIRES_IN" default:"24h"`

	UploadDir      string `envconfig:"UPLOAD_DIR" default:"uploads"`
	UploadMaxBytes int64  `envconfig:"UPLOAD_MAX_BYTES" default:"52428800"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@university.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
}

// Load reads the environment. When no JWT secret is set it is read from, or
// generated into, JWTSecretFile.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		secret, err := loadOrCreateSecret(cfg.JWTSecretFile)
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
	}
	if cfg.UploadMaxBytes <= 0 {
		return nil, errors.New("upload max bytes must be positive")
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func loadOrCreateSecret(path string) (string, error) {
	secret, err := os.ReadFile(path)
	if err == nil {
		return string(secret), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read jwt secret file: %w", err)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	generated := hex.EncodeToString(buf)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create jwt secret dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(generated), 0o600); err != nil {
		return "", fmt.Errorf("write jwt secret file: %w", err)
	}
	return generated, nil
}
