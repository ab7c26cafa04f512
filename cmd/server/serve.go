package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/content-calendar-api/internal/ai"
	"github.com/content-calendar-api/internal/api"
	"github.com/content-calendar-api/internal/auth"
	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/service"
	"github.com/content-calendar-api/pkg/logger"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	log.Info().Str("store", cfg.Store.Driver).Msg("Starting content calendar server...")

	backend, err := openStore(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open store")
		return err
	}
	defer backend.Close()

	// The text, vision and image roles are served by one Gemini client
	gemini, err := ai.NewGeminiClient(cmd.Context(), &cfg.GenAI, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client")
		return err
	}

	services := service.NewServices(service.Dependencies{
		Repos:  backend.Repos,
		Text:   gemini,
		Vision: gemini,
		Images: gemini,
	}, cfg, log)

	if cfg.Server.StaticDir != "" {
		path, err := api.WritePlaceholder(cfg.Server.StaticDir)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to write placeholder image")
		} else {
			log.Debug().Str("path", path).Msg("Placeholder image ready")
		}
	}

	var opts []api.Option
	if backend.HealthCheck != nil {
		opts = append(opts, api.WithHealthCheck(backend.HealthCheck))
	}

	sessions := auth.NewMemoryStore(cfg.Auth.SessionTTL)
	router := api.NewRouter(services, sessions, cfg, log, opts...)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("Server failed")
		return err
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}
