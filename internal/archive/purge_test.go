package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clinic-archive/internal/model"
)

func TestPurgeExpired(t *testing.T) {
	t.Parallel()

	settings := model.ArchiveSettings{Enabled: true, Months: 6, RetentionDays: 730}

	t.Run("archive then purge", func(t *testing.T) {
		archivedAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		store := Store{}
		store.Append("p-1", NewEntry(archivedAt, "Jane Roe", "", settings))

		purgedStore, count := PurgeExpired(store, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		require.Equal(t, 0, count)
		require.Len(t, purgedStore.Get("p-1"), 1)

		purgedStore, count = PurgeExpired(purgedStore, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
		require.Equal(t, 1, count)
		_, exists := purgedStore["p-1"]
		require.False(t, exists)
	})

	t.Run("entry survives the day before expiry and is purged the day after", func(t *testing.T) {
		archivedAt := time.Date(2024, 2, 10, 8, 30, 0, 0, time.UTC)
		const retentionDays = 30
		store := Store{}
		store.Append("e-9", NewEntry(archivedAt, "John Doe", "", model.ArchiveSettings{RetentionDays: retentionDays}))

		_, count := PurgeExpired(store, archivedAt.AddDate(0, 0, retentionDays-1))
		require.Equal(t, 0, count)

		_, count = PurgeExpired(store, archivedAt.AddDate(0, 0, retentionDays+1))
		require.Equal(t, 1, count)
	})

	t.Run("running twice purges nothing more", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		past := now.AddDate(0, 0, -3)
		future := now.AddDate(0, 0, 3)

		store := Store{}
		store.Append("a", entryAt("a1", now.AddDate(-2, 0, 0), &past))
		store.Append("a", entryAt("a2", now.AddDate(0, -1, 0), &future))
		store.Append("b", entryAt("b1", now.AddDate(-2, 0, 0), &past))

		once, first := PurgeExpired(store, now)
		twice, second := PurgeExpired(once, now)

		require.Equal(t, 2, first)
		require.Equal(t, 0, second)
		require.Equal(t, once, twice)
		require.Equal(t, 3, store.Count(), "input store must stay untouched")
	})

	t.Run("entries without an expiry date are kept", func(t *testing.T) {
		store := Store{}
		store.Append("legacy", entryAt("old", time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), nil))

		out, count := PurgeExpired(store, time.Now())
		require.Equal(t, 0, count)
		require.Len(t, out.Get("legacy"), 1)
	})
}

func TestCalculateExpiry(t *testing.T) {
	t.Parallel()

	archivedAt := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), CalculateExpiry(archivedAt, 30))
	require.Equal(t, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), CalculateExpiry(archivedAt, 1))
}

func TestNewEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC)
	entry := NewEntry(now, "  Ana Silva ", "", model.ArchiveSettings{RetentionDays: 10})

	require.Equal(t, "Ana Silva", entry.Name)
	require.Equal(t, model.ReasonManualDelete, entry.Reason)
	require.Equal(t, now, entry.ArchivedAt)
	require.NotNil(t, entry.ExpiryDate)
	require.Equal(t, now.AddDate(0, 0, 10), *entry.ExpiryDate)
}
