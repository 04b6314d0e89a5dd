// Package mocks provides mock implementations of the message use case
// dependencies for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
	outboxDomain "github.com/allisson/cipherchat/internal/outbox/domain"
)

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockMessageRepository) Create(ctx context.Context, msg *messagesDomain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockMessageRepository) Get(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messagesDomain.Message), args.Error(1)
}

// ListByChat mocks the ListByChat method.
func (m *MockMessageRepository) ListByChat(
	ctx context.Context,
	chatID uuid.UUID,
) ([]*messagesDomain.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messagesDomain.Message), args.Error(1)
}

// UpdateContent mocks the UpdateContent method.
func (m *MockMessageRepository) UpdateContent(ctx context.Context, msg *messagesDomain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// SoftDelete mocks the SoftDelete method.
func (m *MockMessageRepository) SoftDelete(ctx context.Context, id uuid.UUID, updatedAt time.Time) error {
	args := m.Called(ctx, id, updatedAt)
	return args.Error(0)
}

// MockOutboxEventRepository is a mock implementation of OutboxEventRepository.
type MockOutboxEventRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockOutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMessageUseCase is a mock implementation of MessageUseCase.
type MockMessageUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockMessageUseCase) Create(
	ctx context.Context,
	senderID, chatID uuid.UUID,
	content string,
	alg cryptoDomain.Algorithm,
) (*messagesDomain.Message, error) {
	args := m.Called(ctx, senderID, chatID, content, alg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messagesDomain.Message), args.Error(1)
}

// ListByChat mocks the ListByChat method.
func (m *MockMessageUseCase) ListByChat(
	ctx context.Context,
	chatID uuid.UUID,
) ([]*messagesDomain.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messagesDomain.Message), args.Error(1)
}

// Edit mocks the Edit method.
func (m *MockMessageUseCase) Edit(
	ctx context.Context,
	id uuid.UUID,
	content string,
	alg cryptoDomain.Algorithm,
) (*messagesDomain.Message, error) {
	args := m.Called(ctx, id, content, alg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messagesDomain.Message), args.Error(1)
}

// SoftDelete mocks the SoftDelete method.
func (m *MockMessageUseCase) SoftDelete(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messagesDomain.Message), args.Error(1)
}
