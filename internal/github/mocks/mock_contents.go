package mocks

import (
	"context"

	"creatorhome/internal/github"

	"github.com/stretchr/testify/mock"
)

type MockContents struct {
	mock.Mock
}

func (m *MockContents) GetFile(ctx context.Context, token, path string) (*github.File, error) {
	args := m.Called(ctx, token, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.File), args.Error(1)
}

func (m *MockContents) PutFile(ctx context.Context, token string, req github.PutRequest) (*github.PutResult, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.PutResult), args.Error(1)
}
