package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"clinic-archive/internal/archive"
	"clinic-archive/internal/event"
	"clinic-archive/internal/metrics"
	"clinic-archive/internal/model"
	"clinic-archive/internal/util"
	"clinic-archive/pkg/apierror"
)

const (
	modeManual    = "manual"
	modeAutomatic = "automatic"
)

// ArchiveService owns the archive store of every entity type. Each
// read-modify-write of one entity type's store runs under that type's lock.
type ArchiveService struct {
	state    StateStore
	settings *SettingsService
	entities EntitySource
	notifier Notifier
	audit    *AuditService
	bus      event.Bus
	metrics  *metrics.Metrics
	locks    map[model.EntityType]*sync.Mutex
	now      func() time.Time
	logger   *slog.Logger
}

func NewArchiveService(
	state StateStore,
	settings *SettingsService,
	entities EntitySource,
	notifier Notifier,
	audit *AuditService,
	bus event.Bus,
	m *metrics.Metrics,
) *ArchiveService {
	locks := make(map[model.EntityType]*sync.Mutex, len(model.EntityTypes))
	for _, entityType := range model.EntityTypes {
		locks[entityType] = &sync.Mutex{}
	}

	return &ArchiveService{
		state:    state,
		settings: settings,
		entities: entities,
		notifier: notifier,
		audit:    audit,
		bus:      bus,
		metrics:  m,
		locks:    locks,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   slog.Default().With("component", "archive"),
	}
}

func (s *ArchiveService) SetClock(now func() time.Time) {
	if now == nil {
		return
	}
	s.now = now
}

func (s *ArchiveService) lock(entityType model.EntityType) (func(), error) {
	mu, ok := s.locks[entityType]
	if !ok {
		return nil, model.ErrInvalidEntityType
	}
	mu.Lock()
	return mu.Unlock, nil
}

func (s *ArchiveService) load(ctx context.Context, entityType model.EntityType) (archive.Store, error) {
	store := archive.Store{}
	if _, err := loadJSON(ctx, s.state, archiveKey(entityType), &store); err != nil {
		return nil, err
	}
	// Documents written by older clients may carry empty lists.
	return store.Clone(), nil
}

func (s *ArchiveService) save(ctx context.Context, entityType model.EntityType, store archive.Store) error {
	return saveJSON(ctx, s.state, archiveKey(entityType), store)
}

// Archive records a manual soft-delete of an entity. It always appends, even
// when the entity already has entries.
func (s *ArchiveService) Archive(ctx context.Context, entityType model.EntityType, entityID string, name string, reason string, actor model.AuditActor) (model.ArchiveEntry, error) {
	if err := util.ValidateEntityID(entityID); err != nil {
		return model.ArchiveEntry{}, err
	}
	name, err := util.SanitizeName(name)
	if err != nil {
		return model.ArchiveEntry{}, err
	}

	settings, err := s.settings.Get(ctx, entityType)
	if err != nil {
		notify(ctx, s.notifier, model.LevelError, entityType, "Could not archive record")
		return model.ArchiveEntry{}, err
	}

	unlock, err := s.lock(entityType)
	if err != nil {
		return model.ArchiveEntry{}, err
	}
	defer unlock()

	store, err := s.load(ctx, entityType)
	if err != nil {
		notify(ctx, s.notifier, model.LevelError, entityType, "Could not archive record")
		return model.ArchiveEntry{}, err
	}

	entry := archive.NewEntry(s.now(), name, reason, settings)
	store.Append(entityID, entry)

	resource := string(entityType) + "/" + entityID
	if err := s.save(ctx, entityType, store); err != nil {
		notify(ctx, s.notifier, model.LevelError, entityType, "Could not archive record")
		s.audit.Log(ctx, AuditActionArchive, actor, AuditStatusFailed, resource, nil, entry, err.Error())
		return model.ArchiveEntry{}, err
	}

	s.logger.Info("entity archived", "entity_type", entityType, "entity_id", entityID, "reason", entry.Reason)
	s.metrics.ObserveArchived(string(entityType), modeManual, 1)
	s.audit.Log(ctx, AuditActionArchive, actor, AuditStatusSuccess, resource, nil, entry, "")
	publish(s.bus, event.TypeArchiveCreated, entityType, actor, map[string]any{"entity_id": entityID, "entry": entry})
	notify(ctx, s.notifier, model.LevelSuccess, entityType, fmt.Sprintf("%s archived", entry.Name))

	return entry, nil
}

func (s *ArchiveService) List(ctx context.Context, entityType model.EntityType) (archive.Store, error) {
	unlock, err := s.lock(entityType)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.load(ctx, entityType)
}

// Get returns the entries of one entity; unknown entities yield an empty list.
func (s *ArchiveService) Get(ctx context.Context, entityType model.EntityType, entityID string) ([]model.ArchiveEntry, error) {
	store, err := s.List(ctx, entityType)
	if err != nil {
		return nil, err
	}
	return store.Get(entityID), nil
}

// DeleteEntry removes the entry at index. A stale index is reported, never applied.
func (s *ArchiveService) DeleteEntry(ctx context.Context, entityType model.EntityType, entityID string, index int, actor model.AuditActor) (model.ArchiveEntry, error) {
	unlock, err := s.lock(entityType)
	if err != nil {
		return model.ArchiveEntry{}, err
	}
	defer unlock()

	store, err := s.load(ctx, entityType)
	if err != nil {
		notify(ctx, s.notifier, model.LevelError, entityType, "Could not delete archive entry")
		return model.ArchiveEntry{}, err
	}

	resource := fmt.Sprintf("%s/%s/%d", entityType, entityID, index)
	removed, err := store.Remove(entityID, index)
	if err != nil {
		notify(ctx, s.notifier, model.LevelWarning, entityType, "Archive entry no longer exists")
		s.audit.Log(ctx, AuditActionDeleteEntry, actor, AuditStatusFailed, resource, nil, nil, err.Error())
		return model.ArchiveEntry{}, err
	}

	if err := s.save(ctx, entityType, store); err != nil {
		notify(ctx, s.notifier, model.LevelError, entityType, "Could not delete archive entry")
		s.audit.Log(ctx, AuditActionDeleteEntry, actor, AuditStatusFailed, resource, removed, nil, err.Error())
		return model.ArchiveEntry{}, err
	}

	s.logger.Info("archive entry deleted", "entity_type", entityType, "entity_id", entityID, "index", index)
	s.metrics.ObserveDeleted(string(entityType))
	s.audit.Log(ctx, AuditActionDeleteEntry, actor, AuditStatusSuccess, resource, removed, nil, "")
	publish(s.bus, event.TypeArchiveDeleted, entityType, actor, map[string]any{"entity_id": entityID, "index": index})
	notify(ctx, s.notifier, model.LevelSuccess, entityType, "Archive entry deleted")

	return removed, nil
}

// PurgeExpired permanently removes expired entries and returns how many were removed.
// Silent purges only log; manual purges report the outcome through the notifier.
func (s *ArchiveService) PurgeExpired(ctx context.Context, entityType model.EntityType, mode model.PurgeMode, actor model.AuditActor) (int, error) {
	purged, err := s.purge(ctx, entityType)
	if err != nil {
		if mode == model.PurgeModeManual {
			notify(ctx, s.notifier, model.LevelError, entityType, "Purging expired archives failed")
			s.audit.Log(ctx, AuditActionPurge, actor, AuditStatusFailed, string(entityType), nil, nil, err.Error())
		} else {
			s.logger.Error("silent purge failed", "entity_type", entityType, "error", err)
		}
		return 0, err
	}

	s.metrics.ObservePurged(string(entityType), string(mode), purged)
	if purged > 0 {
		s.logger.Info("expired archives purged", "entity_type", entityType, "mode", mode, "purged", purged)
		publish(s.bus, event.TypeArchivePurged, entityType, actor, map[string]any{"purged": purged, "mode": mode})
	} else {
		s.logger.Debug("no expired archives", "entity_type", entityType, "mode", mode)
	}

	if mode == model.PurgeModeManual {
		s.audit.Log(ctx, AuditActionPurge, actor, AuditStatusSuccess, string(entityType), nil, map[string]int{"purged": purged}, "")
		if purged > 0 {
			notify(ctx, s.notifier, model.LevelSuccess, entityType, PurgeMessage(purged))
		} else {
			notify(ctx, s.notifier, model.LevelInfo, entityType, PurgeMessage(purged))
		}
	} else if purged > 0 {
		s.audit.Log(ctx, AuditActionPurge, actor, AuditStatusSuccess, string(entityType), nil, map[string]int{"purged": purged}, "")
	}

	return purged, nil
}

func (s *ArchiveService) purge(ctx context.Context, entityType model.EntityType) (int, error) {
	unlock, err := s.lock(entityType)
	if err != nil {
		return 0, err
	}
	defer unlock()

	store, err := s.load(ctx, entityType)
	if err != nil {
		return 0, err
	}

	remaining, purged := archive.PurgeExpired(store, s.now())
	if purged == 0 {
		return 0, nil
	}

	if err := s.save(ctx, entityType, remaining); err != nil {
		return 0, err
	}
	return purged, nil
}

func PurgeMessage(purged int) string {
	switch purged {
	case 0:
		return "No expired archives to purge"
	case 1:
		return "1 expired archive purged"
	default:
		return fmt.Sprintf("%d expired archives purged", purged)
	}
}

// AutoArchive archives every eligible entity that has no unexpired archive entry yet.
func (s *ArchiveService) AutoArchive(ctx context.Context, entityType model.EntityType) (int, error) {
	start := time.Now()
	defer s.metrics.ObserveSweep(string(entityType), start)

	settings, err := s.settings.Get(ctx, entityType)
	if err != nil {
		return 0, err
	}
	if !settings.Enabled {
		s.logger.Debug("automatic archival disabled", "entity_type", entityType)
		return 0, nil
	}

	entities, err := s.entities.ListEntities(ctx, entityType)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", entityType, err)
	}

	unlock, err := s.lock(entityType)
	if err != nil {
		return 0, err
	}
	defer unlock()

	store, err := s.load(ctx, entityType)
	if err != nil {
		return 0, err
	}

	now := s.now()
	archivedIDs := make([]string, 0)
	for _, entity := range entities {
		if entity.ID == "" || store.HasUnexpired(entity.ID, now) {
			continue
		}
		if !archive.IsEligibleForArchive(entity, settings, now) {
			continue
		}
		name, err := util.SanitizeName(entity.Name)
		if err != nil {
			name = entity.ID
		}
		store.Append(entity.ID, archive.NewEntry(now, name, model.ReasonAutoArchive, settings))
		archivedIDs = append(archivedIDs, entity.ID)
	}

	if len(archivedIDs) == 0 {
		return 0, nil
	}

	if err := s.save(ctx, entityType, store); err != nil {
		s.audit.Log(ctx, AuditActionAutoArchive, model.SystemActor, AuditStatusFailed, string(entityType), nil, archivedIDs, err.Error())
		return 0, err
	}

	s.logger.Info("inactive entities archived", "entity_type", entityType, "archived", len(archivedIDs), "months", settings.Months)
	s.metrics.ObserveArchived(string(entityType), modeAutomatic, len(archivedIDs))
	s.audit.Log(ctx, AuditActionAutoArchive, model.SystemActor, AuditStatusSuccess, string(entityType), nil, archivedIDs, "")
	publish(s.bus, event.TypeArchiveCreated, entityType, model.SystemActor, map[string]any{"entity_ids": archivedIDs})

	return len(archivedIDs), nil
}

// Sweep runs automatic archival followed by a silent purge.
func (s *ArchiveService) Sweep(ctx context.Context, entityType model.EntityType) (model.SweepResult, error) {
	result := model.SweepResult{EntityType: entityType}

	archived, err := s.AutoArchive(ctx, entityType)
	if err != nil {
		return result, err
	}
	result.Archived = archived

	purged, err := s.PurgeExpired(ctx, entityType, model.PurgeModeSilent, model.SystemActor)
	if err != nil {
		return result, err
	}
	result.Purged = purged

	return result, nil
}

// CheckNameAvailable reports whether a new record may use name.
func (s *ArchiveService) CheckNameAvailable(ctx context.Context, entityType model.EntityType, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, apierror.New("BAD_REQUEST", "name is required", "name", http.StatusBadRequest)
	}

	entities, err := s.entities.ListEntities(ctx, entityType)
	if err != nil {
		return false, err
	}

	store, err := s.List(ctx, entityType)
	if err != nil {
		return false, err
	}

	return archive.NameAvailable(name, entities, store), nil
}
