package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clinic-archive/internal/model"
)

func TestMemoryAuditRepository_Query(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryAuditRepository()
	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Log(ctx, model.AuditEntry{
			Action:     "archive.create",
			OccurredAt: base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339Nano),
			Actor:      model.AuditActor{UserID: "u1"},
			Status:     "success",
			Resource:   fmt.Sprintf("patients/%d", i),
		}))
	}
	require.NoError(t, repo.Log(ctx, model.AuditEntry{
		Action:     "archive.purge",
		OccurredAt: base.Add(10 * time.Hour).Format(time.RFC3339Nano),
		Actor:      model.SystemActor,
		Status:     "success",
		Resource:   "employees",
	}))

	t.Run("newest first with pagination", func(t *testing.T) {
		items, meta, err := repo.Query(ctx, model.AuditQuery{Page: 1, Limit: 4})
		require.NoError(t, err)
		require.Len(t, items, 4)
		require.Equal(t, "archive.purge", items[0].Action)
		require.Equal(t, 6, meta.Total)
		require.Equal(t, 2, meta.TotalPages)

		items, _, err = repo.Query(ctx, model.AuditQuery{Page: 2, Limit: 4})
		require.NoError(t, err)
		require.Len(t, items, 2)
	})

	t.Run("filters by action resource and time", func(t *testing.T) {
		items, _, err := repo.Query(ctx, model.AuditQuery{Action: "ARCHIVE.CREATE", Resource: "patients/3"})
		require.NoError(t, err)
		require.Len(t, items, 1)

		items, _, err = repo.Query(ctx, model.AuditQuery{
			From: base.Add(2 * time.Hour).Format(time.RFC3339Nano),
			To:   base.Add(4 * time.Hour).Format(time.RFC3339Nano),
		})
		require.NoError(t, err)
		require.Len(t, items, 3)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		items, _, err := repo.Query(ctx, model.AuditQuery{Page: 9, Limit: 50})
		require.NoError(t, err)
		require.Empty(t, items)
	})
}
