package service

import (
	"context"
	"errors"
	"log/slog"

	"clinic-archive/internal/metrics"
	"clinic-archive/internal/model"
)

// EntitySource lists the patients or employees known to the clinic backend.
type EntitySource interface {
	ListEntities(ctx context.Context, entityType model.EntityType) ([]model.Entity, error)
}

// CachedEntitySource keeps the last successful listing per entity type in the
// state store and serves it whenever the remote source fails.
type CachedEntitySource struct {
	remote  EntitySource
	state   StateStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewCachedEntitySource(remote EntitySource, state StateStore, m *metrics.Metrics) *CachedEntitySource {
	return &CachedEntitySource{
		remote:  remote,
		state:   state,
		metrics: m,
		logger:  slog.Default().With("component", "archive.entities"),
	}
}

func (s *CachedEntitySource) ListEntities(ctx context.Context, entityType model.EntityType) ([]model.Entity, error) {
	entities, remoteErr := s.remote.ListEntities(ctx, entityType)
	if remoteErr == nil {
		if err := saveJSON(ctx, s.state, entitiesCacheKey(entityType), entities); err != nil {
			s.logger.Warn("failed to cache entity listing", "entity_type", entityType, "error", err)
		}
		return entities, nil
	}

	if errors.Is(remoteErr, model.ErrInvalidEntityType) {
		return nil, remoteErr
	}

	s.logger.Warn("clinic backend unavailable, using cached entities", "entity_type", entityType, "error", remoteErr)
	s.metrics.ObserveFallback(string(entityType))

	var cached []model.Entity
	found, err := loadJSON(ctx, s.state, entitiesCacheKey(entityType), &cached)
	if err != nil {
		return nil, err
	}
	if !found {
		return []model.Entity{}, nil
	}
	return cached, nil
}
