package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/h3yzack/aurasage-document-service/internal/event"
	"github.com/h3yzack/aurasage-document-service/internal/model"
	"github.com/h3yzack/aurasage-document-service/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) InitiateUpload(ctx context.Context, req service.UploadRequest, ownerID string) (*service.UploadResult, error) {
	args := m.Called(ctx, req, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, ownerID string) ([]model.Document, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) RequestDownload(ctx context.Context, id string) (*service.DownloadResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadResult), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string, purge bool) error {
	args := m.Called(ctx, id, purge)
	return args.Error(0)
}

func (m *MockDocumentService) ApplyStorageEvent(ctx context.Context, ev event.StorageEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
