package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"clinic-archive/internal/model"
)

const memoryAuditCapacity = 1000

// MemoryAuditRepository keeps the most recent audit entries in process memory.
// Used with the redis and memory state backends.
type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []model.AuditEntry
}

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{entries: make([]model.AuditEntry, 0, 64)}
}

func (r *MemoryAuditRepository) Log(_ context.Context, entry model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if overflow := len(r.entries) - memoryAuditCapacity; overflow > 0 {
		r.entries = append([]model.AuditEntry(nil), r.entries[overflow:]...)
	}
	return nil
}

func (r *MemoryAuditRepository) Query(_ context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	query = normalizeAuditQuery(query)

	from, hasFrom := parseAuditTime(query.From)
	to, hasTo := parseAuditTime(query.To)

	r.mu.RLock()
	matched := make([]model.AuditEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if query.Action != "" && !strings.EqualFold(entry.Action, query.Action) {
			continue
		}
		if query.ActorID != "" && entry.Actor.UserID != query.ActorID {
			continue
		}
		if query.Status != "" && !strings.EqualFold(entry.Status, query.Status) {
			continue
		}
		if query.Resource != "" && !strings.Contains(strings.ToLower(entry.Resource), strings.ToLower(query.Resource)) {
			continue
		}
		if hasFrom || hasTo {
			occurred, ok := parseAuditTime(entry.OccurredAt)
			if !ok || (hasFrom && occurred.Before(from)) || (hasTo && occurred.After(to)) {
				continue
			}
		}
		matched = append(matched, entry)
	}
	r.mu.RUnlock()

	meta := auditMeta(query, len(matched))
	start := (query.Page - 1) * query.Limit
	if start >= len(matched) {
		return []model.AuditEntry{}, meta, nil
	}
	end := start + query.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], meta, nil
}

func parseAuditTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
