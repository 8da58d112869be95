package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clinic-archive/internal/metrics"
	"clinic-archive/internal/model"
	"clinic-archive/internal/repository"
)

func TestCachedEntitySource(t *testing.T) {
	ctx := context.Background()
	listing := []model.Entity{{ID: "p-1", Name: "Jane Roe", Status: "inactive"}}

	t.Run("serves the last good listing when the backend fails", func(t *testing.T) {
		remote := new(MockEntitySource)
		state := repository.NewMemoryStateRepository()
		m := metrics.New()
		source := NewCachedEntitySource(remote, state, m)

		remote.On("ListEntities", mock.Anything, model.EntityPatients).Return(listing, nil).Once()
		remote.On("ListEntities", mock.Anything, model.EntityPatients).Return(nil, model.ErrBackendUnavailable).Once()

		first, err := source.ListEntities(ctx, model.EntityPatients)
		require.NoError(t, err)
		assert.Equal(t, listing, first)

		second, err := source.ListEntities(ctx, model.EntityPatients)
		require.NoError(t, err)
		assert.Equal(t, listing, second)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendFallback.WithLabelValues("patients")))
		remote.AssertExpectations(t)
	})

	t.Run("empty listing without a cache", func(t *testing.T) {
		remote := new(MockEntitySource)
		source := NewCachedEntitySource(remote, repository.NewMemoryStateRepository(), nil)
		remote.On("ListEntities", mock.Anything, model.EntityEmployees).Return(nil, model.ErrBackendUnavailable)

		entities, err := source.ListEntities(ctx, model.EntityEmployees)
		require.NoError(t, err)
		assert.Empty(t, entities)
	})

	t.Run("invalid entity type is not masked", func(t *testing.T) {
		remote := new(MockEntitySource)
		source := NewCachedEntitySource(remote, repository.NewMemoryStateRepository(), nil)
		remote.On("ListEntities", mock.Anything, model.EntityType("rooms")).Return(nil, model.ErrInvalidEntityType)

		_, err := source.ListEntities(ctx, model.EntityType("rooms"))
		require.ErrorIs(t, err, model.ErrInvalidEntityType)
	})
}
