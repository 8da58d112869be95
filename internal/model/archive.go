package model

import "time"

// ArchiveEntry is one archival of an entity. Entries are immutable once created.
// JSON field names match the documents the clinic front-end keeps under the same keys.
type ArchiveEntry struct {
	ArchivedAt time.Time  `json:"archivedAt"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	Name       string     `json:"name"`
	Reason     string     `json:"reason"`
}

// Expired reports whether the entry may be purged at now.
// Entries without an expiry date never expire.
func (e ArchiveEntry) Expired(now time.Time) bool {
	return e.ExpiryDate != nil && now.After(*e.ExpiryDate)
}

type ArchiveSettings struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	Months        int  `json:"months" yaml:"months"`
	RetentionDays int  `json:"retentionDays" yaml:"retention_days"`
}

func DefaultArchiveSettings() ArchiveSettings {
	return ArchiveSettings{Enabled: false, Months: 6, RetentionDays: 730}
}

const (
	ReasonManualDelete = "manually deleted"
	ReasonAutoArchive  = "automatic archive - inactive"
)

type PurgeMode string

const (
	PurgeModeSilent PurgeMode = "silent"
	PurgeModeManual PurgeMode = "manual"
)

type ArchiveRequest struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type ArchiveListData struct {
	EntityType EntityType                `json:"entity_type"`
	Archives   map[string][]ArchiveEntry `json:"archives"`
	Total      int                       `json:"total"`
}

type ArchiveEntriesData struct {
	EntityType EntityType     `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Entries    []ArchiveEntry `json:"entries"`
}

type PurgeResult struct {
	EntityType EntityType `json:"entity_type"`
	Purged     int        `json:"purged"`
	Message    string     `json:"message"`
}

type SweepResult struct {
	EntityType EntityType `json:"entity_type"`
	Archived   int        `json:"archived"`
	Purged     int        `json:"purged"`
}

type NameAvailability struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}
