package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/templui/picture-gallery/internal/app"
	"github.com/templui/picture-gallery/internal/config"
	"github.com/templui/picture-gallery/internal/logger"
	"github.com/templui/picture-gallery/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	flush := logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Environment: cfg.AppEnv,
		SentryDSN:   cfg.SentryDSN,
	})
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		flush()
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", cfg.AppURL)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
