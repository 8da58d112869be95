package archive

import (
	"strings"
	"time"

	"clinic-archive/internal/model"
)

// CalculateExpiry returns archivedAt plus retentionDays calendar days.
// Validation of retentionDays happens where settings are saved.
func CalculateExpiry(archivedAt time.Time, retentionDays int) time.Time {
	return archivedAt.AddDate(0, 0, retentionDays)
}

// NewEntry snapshots name and stamps archival and expiry times from settings.
func NewEntry(now time.Time, name string, reason string, settings model.ArchiveSettings) model.ArchiveEntry {
	expiry := CalculateExpiry(now, settings.RetentionDays)
	if strings.TrimSpace(reason) == "" {
		reason = model.ReasonManualDelete
	}

	return model.ArchiveEntry{
		ArchivedAt: now,
		ExpiryDate: &expiry,
		Name:       strings.TrimSpace(name),
		Reason:     strings.TrimSpace(reason),
	}
}
