package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-archive/internal/model"
	"clinic-archive/internal/repository"
	"clinic-archive/pkg/apierror"
)

func TestAuditService(t *testing.T) {
	ctx := context.Background()
	svc := NewAuditService(repository.NewMemoryAuditRepository())

	svc.Log(ctx, AuditActionPurge, testActor, AuditStatusSuccess, "patients", nil, map[string]int{"purged": 2}, "")
	svc.Log(ctx, AuditActionDeleteEntry, testActor, AuditStatusFailed, "patients/p-1/0", nil, nil, "archive entry not found")

	items, meta, err := svc.Query(ctx, model.AuditQuery{Status: AuditStatusFailed})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, AuditActionDeleteEntry, items[0].Action)
	assert.Equal(t, 1, meta.Total)

	_, _, err = svc.Query(ctx, model.AuditQuery{From: "yesterday"})
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)

	var nilSvc *AuditService
	assert.NotPanics(t, func() {
		nilSvc.Log(ctx, AuditActionPurge, testActor, AuditStatusSuccess, "patients", nil, nil, "")
	})
}
