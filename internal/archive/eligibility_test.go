package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clinic-archive/internal/model"
)

func TestIsEligibleForArchive(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)
	enabled := model.ArchiveSettings{Enabled: true, Months: 6, RetentionDays: 365}
	lastSeen := func(months int) *time.Time {
		ts := now.AddDate(0, -months, 0)
		return &ts
	}

	tests := []struct {
		name     string
		entity   model.Entity
		settings model.ArchiveSettings
		want     bool
	}{
		{
			name:     "disabled settings never archive",
			entity:   model.Entity{ID: "1", Status: model.StatusInactive},
			settings: model.ArchiveSettings{Enabled: false, Months: 6, RetentionDays: 365},
			want:     false,
		},
		{
			name:     "active status is not eligible",
			entity:   model.Entity{ID: "1", Status: "active", LastActivity: lastSeen(24)},
			settings: enabled,
			want:     false,
		},
		{
			name:     "never engaged inactive entity is eligible",
			entity:   model.Entity{ID: "1", Status: model.StatusInactive},
			settings: enabled,
			want:     true,
		},
		{
			name:     "recent activity inside window",
			entity:   model.Entity{ID: "1", Status: model.StatusInactive, LastActivity: lastSeen(2)},
			settings: enabled,
			want:     false,
		},
		{
			name:     "activity older than window",
			entity:   model.Entity{ID: "1", Status: model.StatusInactive, LastActivity: lastSeen(7)},
			settings: enabled,
			want:     true,
		},
		{
			name:     "status match ignores case and padding",
			entity:   model.Entity{ID: "1", Status: " Inactive ", LastActivity: lastSeen(12)},
			settings: enabled,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsEligibleForArchive(tt.entity, tt.settings, now))
		})
	}
}

func TestIsEligibleForArchive_NeverEngagedIgnoresMonths(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)
	entity := model.Entity{ID: "1", Status: model.StatusInactive}

	for _, months := range []int{0, 1, 6, 120} {
		require.True(t, IsEligibleForArchive(entity, model.ArchiveSettings{Enabled: true, Months: months, RetentionDays: 1}, now))
	}
}

func TestIsEligibleForArchive_ShorterWindowStaysEligible(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)
	last := time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC)
	entity := model.Entity{ID: "1", Status: model.StatusInactive, LastActivity: &last}

	for months := 24; months >= 0; months-- {
		settings := model.ArchiveSettings{Enabled: true, Months: months, RetentionDays: 1}
		if !IsEligibleForArchive(entity, settings, now) {
			continue
		}
		for shorter := months - 1; shorter >= 0; shorter-- {
			settings.Months = shorter
			require.True(t, IsEligibleForArchive(entity, settings, now), "months=%d shorter=%d", months, shorter)
		}
	}
}

func TestInactivityCutoff_UsesCalendarMonths(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), InactivityCutoff(now, 1))
	require.Equal(t, time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC), InactivityCutoff(now, 6))
	require.Equal(t, time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC), InactivityCutoff(now, 24))
}

func TestLatestActivity(t *testing.T) {
	t.Parallel()

	require.Nil(t, LatestActivity())
	require.Nil(t, LatestActivity(time.Time{}))

	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	latest := LatestActivity(a, b, c)
	require.NotNil(t, latest)
	require.Equal(t, b, *latest)
}
