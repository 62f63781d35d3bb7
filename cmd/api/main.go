package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ideahub/internal/api"
	"ideahub/internal/api/handler"
	"ideahub/internal/config"
	"ideahub/internal/database"
	"ideahub/internal/logging"
	"ideahub/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("env", cfg.AppEnv).Msg("IdeaHub starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv, err := newServer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	go func() {
		log.Info().Str("addr", cfg.AppAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newServer opens and seeds the database and returns the server for cfg.
func newServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*http.Server, error) {
	db, err := database.Open(cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	if err := seed.Run(ctx, db, seed.Admin{Email: cfg.AdminEmail, Password: cfg.AdminPassword}); err != nil {
		return nil, fmt.Errorf("seed database: %w", err)
	}

	router, err := api.NewRouter(api.Options{
		DB:         db,
		Log:        log,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.JWTExpiresIn,
		Uploads:    handler.Uploads{Dir: cfg.UploadDir, MaxBytes: cfg.UploadMaxBytes},
		CORSOrigin: cfg.CORSOrigin,
		Production: cfg.IsProduction(),
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
