package app

import (
	"context"
	"fmt"
	"log/slog"

	"clinic-archive/internal/client"
	"clinic-archive/internal/config"
	"clinic-archive/internal/database"
	"clinic-archive/internal/event"
	"clinic-archive/internal/metrics"
	"clinic-archive/internal/model"
	"clinic-archive/internal/repository"
	"clinic-archive/internal/service"
)

// Services is the archive domain wired to the configured state backend.
// The HTTP server and the archivectl CLI share it.
type Services struct {
	Bus      event.Bus
	Metrics  *metrics.Metrics
	Audit    *service.AuditService
	Settings *service.SettingsService
	Archives *service.ArchiveService
	Tokens   *service.TokenService

	closers []func()
}

type auditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

func NewServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	defaults, err := config.LoadArchiveDefaults(cfg.ArchiveDefaultsFile)
	if err != nil {
		return nil, err
	}

	s := &Services{}

	var (
		state     service.StateStore
		auditRepo auditStore
	)

	switch cfg.StateBackend {
	case config.StateBackendPostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.closers = append(s.closers, db.Close)

		if err := db.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		state = repository.NewStateRepository(db.Pool)
		auditRepo = repository.NewAuditRepository(db.Pool)
		slog.Info("database ready")
	case config.StateBackendRedis:
		slog.Info("connecting to Redis")
		rdb, err := database.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = rdb.Close() })

		state = repository.NewRedisStateRepository(rdb, cfg.RedisKeyPrefix)
		auditRepo = repository.NewMemoryAuditRepository()
	default:
		slog.Warn("using in-memory state, archives are lost on restart")
		state = repository.NewMemoryStateRepository()
		auditRepo = repository.NewMemoryAuditRepository()
	}

	s.Bus = event.NewBus()
	s.Metrics = metrics.New()
	s.Audit = service.NewAuditService(auditRepo)
	s.Tokens = service.NewTokenService(cfg.JWTSecret)

	notifier := service.NewBusNotifier(s.Bus)
	backend := client.NewBackend(cfg.BackendURL, cfg.BackendTimeout)
	entities := service.NewCachedEntitySource(backend, state, s.Metrics)

	s.Settings = service.NewSettingsService(state, defaults, notifier, s.Audit, s.Bus)
	s.Archives = service.NewArchiveService(state, s.Settings, entities, notifier, s.Audit, s.Bus, s.Metrics)

	return s, nil
}

// Close releases backend connections in reverse order of acquisition.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
