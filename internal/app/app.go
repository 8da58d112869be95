package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"clinic-archive/internal/config"
	"clinic-archive/internal/handler"
	"clinic-archive/internal/middleware"
	"clinic-archive/internal/router"
	"clinic-archive/internal/service"
	"clinic-archive/internal/websocket"
)

type App struct {
	server    *http.Server
	services  *Services
	hub       *websocket.Hub
	scheduler *service.Scheduler
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	services, err := NewServices(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hub := websocket.NewHub(services.Bus)
	scheduler := service.NewScheduler(services.Archives, cfg.SweepSchedule, cfg.StartupPurgeDelay)

	authMiddleware := middleware.NewAuthMiddleware(services.Tokens)
	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Archive:  handler.NewArchiveHandler(services.Archives),
		Settings: handler.NewSettingsHandler(services.Settings),
		Audit:    handler.NewAuditHandler(services.Audit),
		WS:       handler.NewWSHandler(hub, cfg.CORSOrigins),
		Metrics:  services.Metrics.Handler(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:    server,
		services:  services,
		hub:       hub,
		scheduler: scheduler,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.services.Close()

	go a.hub.Run(ctx)

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start archive scheduler: %w", err)
	}
	if next := a.scheduler.NextRun(); next != nil {
		slog.Info("next archive sweep", "at", *next)
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			a.scheduler.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.scheduler.Stop()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
