package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clinic-archive/internal/model"
)

// ArchiveDefaults holds the settings used for an entity type until an
// administrator saves its own.
type ArchiveDefaults map[model.EntityType]model.ArchiveSettings

type archiveDefaultsFile struct {
	Archive map[string]model.ArchiveSettings `yaml:"archive"`
}

// LoadArchiveDefaults reads per-entity-type default settings from a YAML file:
//
//	archive:
//	  patients:
//	    enabled: true
//	    months: 12
//	    retention_days: 3650
//
// An empty path yields the built-in defaults for every entity type.
func LoadArchiveDefaults(path string) (ArchiveDefaults, error) {
	defaults := ArchiveDefaults{}
	for _, entityType := range model.EntityTypes {
		defaults[entityType] = model.DefaultArchiveSettings()
	}

	if path == "" {
		return defaults, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive defaults %q: %w", path, err)
	}

	var parsed archiveDefaultsFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse archive defaults %q: %w", path, err)
	}

	for key, settings := range parsed.Archive {
		entityType, err := model.ParseEntityType(key)
		if err != nil {
			return nil, fmt.Errorf("archive defaults %q: unknown entity type %q", path, key)
		}
		if settings.RetentionDays < 1 {
			return nil, fmt.Errorf("archive defaults %q: %s retention_days must be at least 1", path, key)
		}
		if settings.Months < 0 {
			return nil, fmt.Errorf("archive defaults %q: %s months cannot be negative", path, key)
		}
		defaults[entityType] = settings
	}

	return defaults, nil
}

func (d ArchiveDefaults) For(entityType model.EntityType) model.ArchiveSettings {
	if settings, ok := d[entityType]; ok {
		return settings
	}
	return model.DefaultArchiveSettings()
}
