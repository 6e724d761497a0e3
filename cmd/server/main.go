package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"feedgen/internal/app"
	"feedgen/internal/config"
	"feedgen/internal/handler"
	"feedgen/internal/logger"
	"feedgen/internal/router"
	"feedgen/internal/service"
)

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

	lg := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = lg.Sync() }()
	zap.ReplaceGlobals(lg)

	a, err := app.New(cfg, lg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := service.NewRunTracker(ctx, a.Generation, lg)

	checks := make(map[string]handler.ReadinessCheck, len(a.Checks))
	for name, check := range a.Checks {
		checks[name] = check
	}

	r := router.Setup(router.Handlers{
		Health: handler.NewHealthHandler(checks),
		Run:    handler.NewRunHandler(tracker),
		Result: handler.NewResultHandler(a.Approvals),
		Export: handler.NewExportHandler(a.Exports),
	}, cfg.CORS.AllowedOrigins, lg)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("env", cfg.Server.Environment))
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
	case <-ctx.Done():
	}

	lg.Info("server shutting down, waiting for in-flight requests and runs...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	tracker.Wait()
	lg.Info("server shutdown complete")
	return nil
}
