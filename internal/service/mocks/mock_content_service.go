package mocks

import (
	"context"

	"creatorhome/internal/model"
	"creatorhome/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Load(ctx context.Context, token string) (*service.LoadResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoadResult), args.Error(1)
}

func (m *MockContentService) Preview(c model.Content) (*service.PreviewResult, error) {
	args := m.Called(c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PreviewResult), args.Error(1)
}

func (m *MockContentService) Publish(ctx context.Context, token string, req service.PublishRequest) (*service.PublishResult, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishResult), args.Error(1)
}
