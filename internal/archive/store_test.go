package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clinic-archive/internal/model"
)

func entryAt(name string, archivedAt time.Time, expiry *time.Time) model.ArchiveEntry {
	return model.ArchiveEntry{ArchivedAt: archivedAt, ExpiryDate: expiry, Name: name, Reason: model.ReasonManualDelete}
}

func TestStoreAppendAndGet(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := Store{}

	require.NotNil(t, store.Get("missing"))
	require.Empty(t, store.Get("missing"))

	store.Append("7", entryAt("first", base, nil))
	store.Append("7", entryAt("second", base.Add(time.Hour), nil))

	entries := store.Get("7")
	require.Len(t, entries, 2)
	require.Equal(t, "first", entries[0].Name)
	require.Equal(t, "second", entries[1].Name)

	entries[0].Name = "mutated"
	require.Equal(t, "first", store.Get("7")[0].Name)
	require.Equal(t, 2, store.Count())
}

func TestStoreRemove(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("deleting index 0 of two shifts the remaining entry down", func(t *testing.T) {
		store := Store{}
		store.Append("42", entryAt("older", base, nil))
		store.Append("42", entryAt("newer", base.AddDate(0, 1, 0), nil))

		removed, err := store.Remove("42", 0)
		require.NoError(t, err)
		require.Equal(t, "older", removed.Name)

		remaining := store.Get("42")
		require.Len(t, remaining, 1)
		require.Equal(t, "newer", remaining[0].Name)
	})

	t.Run("removing the last entry drops the key", func(t *testing.T) {
		store := Store{}
		store.Append("42", entryAt("only", base, nil))

		_, err := store.Remove("42", 0)
		require.NoError(t, err)

		_, exists := store["42"]
		require.False(t, exists)
	})

	t.Run("invalid index is reported without mutation", func(t *testing.T) {
		store := Store{}
		store.Append("42", entryAt("only", base, nil))

		for _, index := range []int{-1, 1, 5} {
			_, err := store.Remove("42", index)
			require.ErrorIs(t, err, model.ErrArchiveEntryNotFound)
		}
		_, err := store.Remove("unknown", 0)
		require.ErrorIs(t, err, model.ErrArchiveEntryNotFound)

		require.Len(t, store.Get("42"), 1)
	})
}

func TestStoreHasUnexpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	store := Store{}
	store.Append("expired", entryAt("a", now.AddDate(-1, 0, 0), &past))
	store.Append("live", entryAt("b", now, &future))
	store.Append("legacy", entryAt("c", now.AddDate(-5, 0, 0), nil))

	require.False(t, store.HasUnexpired("expired", now))
	require.True(t, store.HasUnexpired("live", now))
	require.True(t, store.HasUnexpired("legacy", now))
	require.False(t, store.HasUnexpired("unknown", now))
}
