package service

import (
	"context"
	"encoding/json"
	"fmt"

	"clinic-archive/internal/model"
)

// StateStore persists JSON documents by key. Implementations live in the
// repository package (Postgres, Redis and in-memory).
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
}

func archiveKey(entityType model.EntityType) string {
	return "archive:" + string(entityType)
}

func settingsKey(entityType model.EntityType) string {
	return "archive-settings:" + string(entityType)
}

func entitiesCacheKey(entityType model.EntityType) string {
	return "entities:" + string(entityType)
}

func loadJSON(ctx context.Context, store StateStore, key string, dst any) (bool, error) {
	raw, found, err := store.Load(ctx, key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode state %q: %w", key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, store StateStore, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode state %q: %w", key, err)
	}
	return store.Save(ctx, key, raw)
}
