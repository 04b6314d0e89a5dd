package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
	messagesUsecaseMocks "github.com/allisson/cipherchat/internal/messages/usecase/mocks"
	"github.com/allisson/cipherchat/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordCipherOperation(ctx context.Context, operation, algorithm, status string) {
	m.Called(ctx, operation, algorithm, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectOperation(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "messages", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "messages", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestNewMessageUseCaseWithMetrics(t *testing.T) {
	decorator := NewMessageUseCaseWithMetrics(&messagesUsecaseMocks.MockMessageUseCase{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*MessageUseCase)(nil), decorator)
}

func TestMetricsDecorator_Create(t *testing.T) {
	ctx := context.Background()
	senderID := uuid.Must(uuid.NewV7())
	chatID := uuid.Must(uuid.NewV7())

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		next := &messagesUsecaseMocks.MockMessageUseCase{}
		m := &mockBusinessMetrics{}
		expected := &messagesDomain.Message{ID: uuid.Must(uuid.NewV7()), EncryptionType: cryptoDomain.RC5}

		next.On("Create", ctx, senderID, chatID, "hi", cryptoDomain.RC5).Return(expected, nil).Once()
		expectOperation(ctx, m, "message_create", "success")
		m.On("RecordCipherOperation", ctx, "encrypt", "rc5", "success").Return().Once()

		msg, err := NewMessageUseCaseWithMetrics(next, m).Create(ctx, senderID, chatID, "hi", cryptoDomain.RC5)

		assert.NoError(t, err)
		assert.Equal(t, expected, msg)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		next := &messagesUsecaseMocks.MockMessageUseCase{}
		m := &mockBusinessMetrics{}
		createErr := errors.New("boom")

		next.On("Create", ctx, senderID, chatID, "hi", cryptoDomain.RC6).Return(nil, createErr).Once()
		expectOperation(ctx, m, "message_create", "error")

		msg, err := NewMessageUseCaseWithMetrics(next, m).Create(ctx, senderID, chatID, "hi", cryptoDomain.RC6)

		assert.ErrorIs(t, err, createErr)
		assert.Nil(t, msg)
		m.AssertExpectations(t)
		m.AssertNotCalled(t, "RecordCipherOperation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_CipherFailureCounted", func(t *testing.T) {
		next := &messagesUsecaseMocks.MockMessageUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Create", ctx, senderID, chatID, "hi", cryptoDomain.RC6).
			Return(nil, cryptoDomain.ErrEncryptionFailed).
			Once()
		expectOperation(ctx, m, "message_create", "error")
		m.On("RecordCipherOperation", ctx, "encrypt", "rc6", "error").Return().Once()

		_, err := NewMessageUseCaseWithMetrics(next, m).Create(ctx, senderID, chatID, "hi", cryptoDomain.RC6)

		assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionFailed)
		m.AssertExpectations(t)
	})
}

func TestMetricsDecorator_ListByChat(t *testing.T) {
	ctx := context.Background()
	chatID := uuid.Must(uuid.NewV7())

	t.Run("Success_CountsDecryptFailures", func(t *testing.T) {
		next := &messagesUsecaseMocks.MockMessageUseCase{}
		m := &mockBusinessMetrics{}
		messages := []*messagesDomain.Message{
			{ID: uuid.Must(uuid.NewV7()), EncryptionType: cryptoDomain.RC5, Plaintext: "ok"},
			{ID: uuid.Must(uuid.NewV7()), EncryptionType: cryptoDomain.RC6, DecryptionFailed: true},
			{ID: uuid.Must(uuid.NewV7()), EncryptionType: cryptoDomain.RC6, DecryptionFailed: true},
		}

		next.On("ListByChat", ctx, chatID).Return(messages, nil).Once()
		expectOperation(ctx, m, "message_list", "success")
		m.On("RecordCipherOperation", ctx, "decrypt", "rc5", "success").Return().Once()
		m.On("RecordCipherOperation", ctx, "decrypt", "rc6", "error").Return().Twice()

		result, err := NewMessageUseCaseWithMetrics(next, m).ListByChat(ctx, chatID)

		assert.NoError(t, err)
		assert.Len(t, result, 3)
		m.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		next := &messagesUsecaseMocks.MockMessageUseCase{}
		m := &mockBusinessMetrics{}

		next.On("ListByChat", ctx, chatID).Return(nil, errors.New("down")).Once()
		expectOperation(ctx, m, "message_list", "error")

		result, err := NewMessageUseCaseWithMetrics(next, m).ListByChat(ctx, chatID)

		assert.Error(t, err)
		assert.Nil(t, result)
		m.AssertExpectations(t)
	})
}

func TestMetricsDecorator_EditAndDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())

	t.Run("Success_Edit", func(t *testing.T) {
		next := &messagesUsecaseMocks.MockMessageUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Edit", ctx, id, "new", cryptoDomain.Algorithm("")).
			Return(&messagesDomain.Message{ID: id, EncryptionType: cryptoDomain.RC6}, nil).
			Once()
		expectOperation(ctx, m, "message_edit", "success")
		m.On("RecordCipherOperation", ctx, "encrypt", "rc6", "success").Return().Once()

		_, err := NewMessageUseCaseWithMetrics(next, m).Edit(ctx, id, "new", "")

		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("Error_Delete", func(t *testing.T) {
		next := &messagesUsecaseMocks.MockMessageUseCase{}
		m := &mockBusinessMetrics{}

		next.On("SoftDelete", ctx, id).Return(nil, messagesDomain.ErrMessageNotFound).Once()
		expectOperation(ctx, m, "message_delete", "error")

		_, err := NewMessageUseCaseWithMetrics(next, m).SoftDelete(ctx, id)

		assert.ErrorIs(t, err, messagesDomain.ErrMessageNotFound)
		m.AssertExpectations(t)
	})
}
