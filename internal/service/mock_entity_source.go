package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clinic-archive/internal/model"
)

type MockEntitySource struct {
	mock.Mock
}

func (m *MockEntitySource) ListEntities(ctx context.Context, entityType model.EntityType) ([]model.Entity, error) {
	args := m.Called(ctx, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entity), args.Error(1)
}
