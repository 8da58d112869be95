package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"clinic-archive/internal/config"
	"clinic-archive/internal/event"
	"clinic-archive/internal/model"
)

type SettingsService struct {
	state    StateStore
	defaults config.ArchiveDefaults
	notifier Notifier
	audit    *AuditService
	bus      event.Bus
	mu       sync.Mutex
	logger   *slog.Logger
}

func NewSettingsService(state StateStore, defaults config.ArchiveDefaults, notifier Notifier, audit *AuditService, bus event.Bus) *SettingsService {
	if defaults == nil {
		defaults = config.ArchiveDefaults{}
	}
	return &SettingsService{
		state:    state,
		defaults: defaults,
		notifier: notifier,
		audit:    audit,
		bus:      bus,
		logger:   slog.Default().With("component", "archive.settings"),
	}
}

// Get returns the saved settings for entityType, or its defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context, entityType model.EntityType) (model.ArchiveSettings, error) {
	var settings model.ArchiveSettings
	found, err := loadJSON(ctx, s.state, settingsKey(entityType), &settings)
	if err != nil {
		return model.ArchiveSettings{}, err
	}
	if !found {
		return s.defaults.For(entityType), nil
	}
	return settings, nil
}

// Save validates and persists settings. Invalid settings are rejected with a
// warning notification and the previously stored settings stay in effect.
func (s *SettingsService) Save(ctx context.Context, entityType model.EntityType, settings model.ArchiveSettings, actor model.AuditActor) (model.ArchiveSettings, error) {
	if err := ValidateSettings(settings); err != nil {
		notify(ctx, s.notifier, model.LevelWarning, entityType, err.Error())
		s.audit.Log(ctx, AuditActionSaveSettings, actor, AuditStatusFailed, string(entityType), nil, settings, err.Error())
		return model.ArchiveSettings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.Get(ctx, entityType)
	if err != nil {
		notify(ctx, s.notifier, model.LevelError, entityType, "Could not load archive settings")
		return model.ArchiveSettings{}, err
	}

	if err := saveJSON(ctx, s.state, settingsKey(entityType), settings); err != nil {
		notify(ctx, s.notifier, model.LevelError, entityType, "Could not save archive settings")
		s.audit.Log(ctx, AuditActionSaveSettings, actor, AuditStatusFailed, string(entityType), before, settings, err.Error())
		return model.ArchiveSettings{}, err
	}

	s.logger.Info("archive settings saved",
		"entity_type", entityType,
		"enabled", settings.Enabled,
		"months", settings.Months,
		"retention_days", settings.RetentionDays,
	)
	notify(ctx, s.notifier, model.LevelSuccess, entityType, "Archive settings saved")
	s.audit.Log(ctx, AuditActionSaveSettings, actor, AuditStatusSuccess, string(entityType), before, settings, "")
	publish(s.bus, event.TypeSettingsUpdated, entityType, actor, settings)

	return settings, nil
}

func ValidateSettings(settings model.ArchiveSettings) error {
	if settings.RetentionDays < 1 {
		return fmt.Errorf("%w: retention period must be at least 1 day", model.ErrInvalidSettings)
	}
	if settings.Months < 0 {
		return fmt.Errorf("%w: inactivity window cannot be negative", model.ErrInvalidSettings)
	}
	return nil
}
