package mocks

import (
	"context"

	"creatorhome/internal/model"
	"creatorhome/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockPublishEventRepository struct {
	mock.Mock
}

func (m *MockPublishEventRepository) Create(ctx context.Context, ev *model.PublishEvent) (*model.PublishEvent, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PublishEvent), args.Error(1)
}

func (m *MockPublishEventRepository) FindByID(ctx context.Context, id string) (*model.PublishEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PublishEvent), args.Error(1)
}

func (m *MockPublishEventRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.PublishEvent], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.PublishEvent]), args.Error(1)
}

func (m *MockPublishEventRepository) LatestSucceeded(ctx context.Context, path string) (*model.PublishEvent, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PublishEvent), args.Error(1)
}
