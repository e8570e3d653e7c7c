package mocks

import (
	"context"

	"creatorhome/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) UploadIcon(ctx context.Context, token string, src []byte) (*service.IconResult, error) {
	args := m.Called(ctx, token, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IconResult), args.Error(1)
}

func (m *MockAssetService) BumpManifest(ctx context.Context, token string, req service.BumpRequest) (*service.ManifestResult, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ManifestResult), args.Error(1)
}
