package archive

import (
	"strings"
	"time"

	"clinic-archive/internal/model"
)

// IsEligibleForArchive decides whether entity should be archived automatically at now.
//
// Only inactive entities qualify. An entity with no recorded activity is eligible
// straight away; otherwise its last activity must predate now minus settings.Months
// calendar months.
func IsEligibleForArchive(entity model.Entity, settings model.ArchiveSettings, now time.Time) bool {
	if !settings.Enabled {
		return false
	}

	if !strings.EqualFold(strings.TrimSpace(entity.Status), model.StatusInactive) {
		return false
	}

	if entity.LastActivity == nil {
		return true
	}

	return entity.LastActivity.Before(InactivityCutoff(now, settings.Months))
}

// InactivityCutoff subtracts months calendar months from now, normalizing like time.AddDate.
func InactivityCutoff(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}

// LatestActivity returns the most recent of dates, nil when none are given.
func LatestActivity(dates ...time.Time) *time.Time {
	var latest *time.Time
	for i := range dates {
		if dates[i].IsZero() {
			continue
		}
		if latest == nil || dates[i].After(*latest) {
			d := dates[i]
			latest = &d
		}
	}
	return latest
}
