package mocks

import (
	"context"

	"creatorhome/internal/model"
	"creatorhome/internal/repository"
	"creatorhome/internal/service"
	"creatorhome/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) List(ctx context.Context, limit, offset int) (*repository.PageResult[model.PublishEvent], error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.PublishEvent]), args.Error(1)
}

func (m *MockHistoryService) SnapshotURL(ctx context.Context, id string) (*service.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Snapshot), args.Error(1)
}

func (m *MockHistoryService) Snapshots(ctx context.Context, limit int) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ObjectInfo), args.Error(1)
}

func (m *MockHistoryService) SnapshotContent(ctx context.Context, key string) (model.Content, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(model.Content), args.Error(1)
}
