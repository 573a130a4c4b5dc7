package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/h3yzack/aurasage-document-service/internal/event"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishDeleted(ctx context.Context, ev event.DocumentDeletedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
