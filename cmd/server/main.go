package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vtuportal/internal/bootstrap"
	"vtuportal/internal/config"
	"vtuportal/internal/handler"
	"vtuportal/internal/logging"
	"vtuportal/internal/router"
)

const (
	connectTimeout  = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

// @title VTU Result Portal API
// @version 1.0
// @description Extracts subject rows from VTU result PDFs, computes the SGPA and keeps a shared result table.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	openCtx, cancelOpen := context.WithTimeout(context.Background(), connectTimeout)
	repo, closeStore, err := bootstrap.OpenStore(openCtx, cfg, logger)
	cancelOpen()
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}
	defer func() { _ = closeStore() }()

	resultSvc, err := bootstrap.NewResultService(cfg, repo, logger)
	if err != nil {
		return err
	}

	// Initialize handlers
	resultH := handler.NewResultHandler(resultSvc)
	semesterH := handler.NewSemesterHandler(resultSvc)
	healthH := handler.NewHealthHandler(resultSvc)

	r := router.Setup(logger, cfg.CORS.AllowedOrigins, resultH, semesterH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("store", cfg.Store.Backend),
			zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
