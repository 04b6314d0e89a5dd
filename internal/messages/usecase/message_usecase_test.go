package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	cryptoService "github.com/allisson/cipherchat/internal/crypto/service"
	cryptoServiceMocks "github.com/allisson/cipherchat/internal/crypto/service/mocks"
	apperrors "github.com/allisson/cipherchat/internal/errors"
	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
	messagesUsecaseMocks "github.com/allisson/cipherchat/internal/messages/usecase/mocks"
	outboxDomain "github.com/allisson/cipherchat/internal/outbox/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockTxManager is a mock implementation of database.TxManager that runs fn inline.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testDeps struct {
	txManager   *MockTxManager
	messageRepo *messagesUsecaseMocks.MockMessageRepository
	outboxRepo  *messagesUsecaseMocks.MockOutboxEventRepository
	gateway     cryptoService.MessageCipher
}

func newTestDeps() *testDeps {
	return &testDeps{
		txManager:   &MockTxManager{},
		messageRepo: &messagesUsecaseMocks.MockMessageRepository{},
		outboxRepo:  &messagesUsecaseMocks.MockOutboxEventRepository{},
		gateway:     cryptoService.NewGateway(cryptoService.NewBlockCipherManager()),
	}
}

func (d *testDeps) useCase(config Config) MessageUseCase {
	return NewMessageUseCase(config, d.txManager, d.messageRepo, d.outboxRepo, d.gateway, createTestLogger())
}

func (d *testDeps) assertExpectations(t *testing.T) {
	d.txManager.AssertExpectations(t)
	d.messageRepo.AssertExpectations(t)
	d.outboxRepo.AssertExpectations(t)
}

// encryptedMessage builds a stored message whose content decrypts to text.
func encryptedMessage(
	t *testing.T,
	gateway cryptoService.MessageCipher,
	chatID uuid.UUID,
	text string,
	alg cryptoDomain.Algorithm,
	createdAt time.Time,
) *messagesDomain.Message {
	t.Helper()
	key, ciphertext, err := gateway.Encrypt(text, alg)
	require.NoError(t, err)

	return &messagesDomain.Message{
		ID:             uuid.Must(uuid.NewV7()),
		SenderID:       uuid.Must(uuid.NewV7()),
		ChatID:         chatID,
		Content:        ciphertext,
		Key:            key,
		EncryptionType: alg,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestNewMessageUseCase(t *testing.T) {
	d := newTestDeps()
	uc := d.useCase(Config{})

	assert.NotNil(t, uc)
	impl, ok := uc.(*messageUseCase)
	require.True(t, ok)
	assert.Equal(t, cryptoDomain.RC5, impl.config.DefaultAlgorithm)
	assert.Greater(t, impl.workers(), 0)
}

func TestMessageUseCase_Create(t *testing.T) {
	ctx := context.Background()
	senderID := uuid.Must(uuid.NewV7())
	chatID := uuid.Must(uuid.NewV7())

	t.Run("Success_DefaultAlgorithm", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{DefaultAlgorithm: cryptoDomain.RC5})

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Create", ctx, mock.MatchedBy(func(m *messagesDomain.Message) bool {
			return m.SenderID == senderID && m.ChatID == chatID && m.EncryptionType == cryptoDomain.RC5
		})).Return(nil).Once()
		d.outboxRepo.On("Create", ctx, mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
			return e.EventType == messagesDomain.EventMessageCreated &&
				e.Status == outboxDomain.OutboxEventStatusPending
		})).Return(nil).Once()

		msg, err := uc.Create(ctx, senderID, chatID, "hello", "")

		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.RC5, msg.EncryptionType)
		assert.Len(t, msg.Key, 32)
		assert.Len(t, msg.Content, 32)
		assert.NotEqual(t, "hello", msg.Content)
		assert.False(t, msg.IsDeleted)
		assert.Equal(t, msg.CreatedAt, msg.UpdatedAt)

		plaintext, err := d.gateway.Decrypt(msg.Content, msg.Key, msg.EncryptionType)
		require.NoError(t, err)
		assert.Equal(t, "hello", plaintext)
		d.assertExpectations(t)
	})

	t.Run("Success_ExplicitAlgorithm", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{DefaultAlgorithm: cryptoDomain.RC5})

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		d.outboxRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		msg, err := uc.Create(ctx, senderID, chatID, "olá mundo", cryptoDomain.RC6)

		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.RC6, msg.EncryptionType)
		assert.Len(t, msg.Content, 32)
		d.assertExpectations(t)
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})

		msg, err := uc.Create(ctx, senderID, chatID, "hello", cryptoDomain.Algorithm("rot13"))

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
		d.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_EncryptionFailure", func(t *testing.T) {
		d := newTestDeps()
		cipher := &cryptoServiceMocks.MockMessageCipher{}
		uc := NewMessageUseCase(Config{}, d.txManager, d.messageRepo, d.outboxRepo, cipher, createTestLogger())

		cipher.On("Encrypt", "hello", cryptoDomain.RC5).
			Return("", "", cryptoDomain.ErrEncryptionFailed).
			Once()

		msg, err := uc.Create(ctx, senderID, chatID, "hello", "")

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, apperrors.ErrCryptoFailure)
		d.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
		cipher.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})
		storeErr := apperrors.StoreFailure(errors.New("connection refused"), "failed to create message")

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Create", ctx, mock.Anything).Return(storeErr).Once()

		msg, err := uc.Create(ctx, senderID, chatID, "hello", "")

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
		d.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		d.assertExpectations(t)
	})

	t.Run("Error_OutboxFailure", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})
		outboxErr := errors.New("outbox insert failed")

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		d.outboxRepo.On("Create", ctx, mock.Anything).Return(outboxErr).Once()

		msg, err := uc.Create(ctx, senderID, chatID, "hello", "")

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, outboxErr)
		d.assertExpectations(t)
	})

	t.Run("Success_KeysAreNeverReused", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		d.messageRepo.On("Create", ctx, mock.Anything).Return(nil)
		d.outboxRepo.On("Create", ctx, mock.Anything).Return(nil)

		first, err := uc.Create(ctx, senderID, chatID, "same", "")
		require.NoError(t, err)
		second, err := uc.Create(ctx, senderID, chatID, "same", "")
		require.NoError(t, err)

		assert.NotEqual(t, first.Key, second.Key)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestMessageUseCase_ListByChat(t *testing.T) {
	ctx := context.Background()
	chatID := uuid.Must(uuid.NewV7())

	t.Run("Success_MixedAlgorithmsKeepOrder", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{DecryptWorkers: 3})

		base := time.Now().UTC()
		texts := []string{"first", "", "third message spans several blocks", "четвёртый", "fifth"}
		stored := make([]*messagesDomain.Message, 0, len(texts))
		for i, text := range texts {
			alg := cryptoDomain.RC5
			if i%2 == 1 {
				alg = cryptoDomain.RC6
			}
			stored = append(stored, encryptedMessage(t, d.gateway, chatID, text, alg, base.Add(time.Duration(i)*time.Second)))
		}

		d.messageRepo.On("ListByChat", ctx, chatID).Return(stored, nil).Once()

		messages, err := uc.ListByChat(ctx, chatID)

		require.NoError(t, err)
		require.Len(t, messages, len(texts))
		for i, msg := range messages {
			assert.Equal(t, stored[i].ID, msg.ID)
			assert.Equal(t, texts[i], msg.Plaintext)
			assert.False(t, msg.DecryptionFailed)
		}
		d.assertExpectations(t)
	})

	t.Run("Success_CorruptRecordGetsPlaceholder", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{DecryptWorkers: 2})

		base := time.Now().UTC()
		good := encryptedMessage(t, d.gateway, chatID, "still readable", cryptoDomain.RC6, base)
		corrupt := encryptedMessage(t, d.gateway, chatID, "lost", cryptoDomain.RC5, base.Add(time.Second))
		corrupt.Content = "not-hex"
		wrongTag := encryptedMessage(t, d.gateway, chatID, "tag", cryptoDomain.RC5, base.Add(2*time.Second))
		wrongTag.EncryptionType = cryptoDomain.Algorithm("rc4")

		d.messageRepo.On("ListByChat", ctx, chatID).
			Return([]*messagesDomain.Message{good, corrupt, wrongTag}, nil).
			Once()

		messages, err := uc.ListByChat(ctx, chatID)

		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, "still readable", messages[0].Plaintext)
		assert.False(t, messages[0].DecryptionFailed)
		assert.Equal(t, messagesDomain.DecryptionFailedPlaceholder, messages[1].Plaintext)
		assert.True(t, messages[1].DecryptionFailed)
		assert.Equal(t, messagesDomain.DecryptionFailedPlaceholder, messages[2].Plaintext)
		assert.True(t, messages[2].DecryptionFailed)
		d.assertExpectations(t)
	})

	t.Run("Success_DeletedMessagesIncluded", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})

		msg := encryptedMessage(t, d.gateway, chatID, "gone", cryptoDomain.RC5, time.Now().UTC())
		msg.IsDeleted = true
		d.messageRepo.On("ListByChat", ctx, chatID).Return([]*messagesDomain.Message{msg}, nil).Once()

		messages, err := uc.ListByChat(ctx, chatID)

		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.True(t, messages[0].IsDeleted)
		assert.Equal(t, "gone", messages[0].Plaintext)
	})

	t.Run("Success_EmptyChat", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})

		d.messageRepo.On("ListByChat", ctx, chatID).Return([]*messagesDomain.Message{}, nil).Once()

		messages, err := uc.ListByChat(ctx, chatID)

		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})
		storeErr := apperrors.StoreFailure(errors.New("timeout"), "failed to list messages")

		d.messageRepo.On("ListByChat", ctx, chatID).Return(nil, storeErr).Once()

		messages, err := uc.ListByChat(ctx, chatID)

		assert.Nil(t, messages)
		assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
	})

	t.Run("Error_ContextCanceled", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{DecryptWorkers: 1})
		cancelCtx, cancel := context.WithCancel(ctx)

		msg := encryptedMessage(t, d.gateway, chatID, "never shown", cryptoDomain.RC5, time.Now().UTC())
		d.messageRepo.On("ListByChat", cancelCtx, chatID).
			Run(func(args mock.Arguments) { cancel() }).
			Return([]*messagesDomain.Message{msg}, nil).
			Once()

		messages, err := uc.ListByChat(cancelCtx, chatID)

		assert.Nil(t, messages)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, msg.Plaintext)
	})
}

func TestMessageUseCase_Edit(t *testing.T) {
	ctx := context.Background()
	chatID := uuid.Must(uuid.NewV7())

	t.Run("Success_KeepsAlgorithm", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})

		created := time.Now().UTC().Add(-time.Hour)
		current := encryptedMessage(t, d.gateway, chatID, "original", cryptoDomain.RC6, created)
		oldKey, oldContent := current.Key, current.Content

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Get", ctx, current.ID).Return(current, nil).Once()
		d.messageRepo.On("UpdateContent", ctx, current).Return(nil).Once()
		d.outboxRepo.On("Create", ctx, mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
			return e.EventType == messagesDomain.EventMessageEdited
		})).Return(nil).Once()

		msg, err := uc.Edit(ctx, current.ID, "edited", "")

		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.RC6, msg.EncryptionType)
		assert.NotEqual(t, oldKey, msg.Key)
		assert.NotEqual(t, oldContent, msg.Content)
		assert.Equal(t, created, msg.CreatedAt)
		assert.True(t, msg.UpdatedAt.After(created))

		plaintext, err := d.gateway.Decrypt(msg.Content, msg.Key, msg.EncryptionType)
		require.NoError(t, err)
		assert.Equal(t, "edited", plaintext)
		d.assertExpectations(t)
	})

	t.Run("Success_SwitchesAlgorithm", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})

		current := encryptedMessage(t, d.gateway, chatID, "original", cryptoDomain.RC5, time.Now().UTC())

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Get", ctx, current.ID).Return(current, nil).Once()
		d.messageRepo.On("UpdateContent", ctx, mock.MatchedBy(func(m *messagesDomain.Message) bool {
			return m.EncryptionType == cryptoDomain.RC6
		})).Return(nil).Once()
		d.outboxRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		msg, err := uc.Edit(ctx, current.ID, "now with rc6", cryptoDomain.RC6)

		require.NoError(t, err)
		plaintext, err := d.gateway.Decrypt(msg.Content, msg.Key, cryptoDomain.RC6)
		require.NoError(t, err)
		assert.Equal(t, "now with rc6", plaintext)
		d.assertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})
		id := uuid.Must(uuid.NewV7())

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Get", ctx, id).Return(nil, messagesDomain.ErrMessageNotFound).Once()

		msg, err := uc.Edit(ctx, id, "edited", "")

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		d.messageRepo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything)
	})

	t.Run("Error_UnsupportedAlgorithmLeavesRecord", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})

		current := encryptedMessage(t, d.gateway, chatID, "original", cryptoDomain.RC5, time.Now().UTC())
		oldKey, oldContent := current.Key, current.Content

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Get", ctx, current.ID).Return(current, nil).Once()

		msg, err := uc.Edit(ctx, current.ID, "edited", cryptoDomain.Algorithm("aes"))

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
		assert.Equal(t, oldKey, current.Key)
		assert.Equal(t, oldContent, current.Content)
		d.messageRepo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything)
	})

	t.Run("Error_UpdateFailure", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})
		current := encryptedMessage(t, d.gateway, chatID, "original", cryptoDomain.RC5, time.Now().UTC())
		storeErr := apperrors.StoreFailure(errors.New("deadlock"), "failed to update message")

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Get", ctx, current.ID).Return(current, nil).Once()
		d.messageRepo.On("UpdateContent", ctx, current).Return(storeErr).Once()

		msg, err := uc.Edit(ctx, current.ID, "edited", "")

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, apperrors.ErrStoreFailure)
		d.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestMessageUseCase_SoftDelete(t *testing.T) {
	ctx := context.Background()
	chatID := uuid.Must(uuid.NewV7())

	t.Run("Success_ContentAndKeyUntouched", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})

		current := encryptedMessage(t, d.gateway, chatID, "bye", cryptoDomain.RC5, time.Now().UTC())
		oldKey, oldContent := current.Key, current.Content

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Get", ctx, current.ID).Return(current, nil).Once()
		d.messageRepo.On("SoftDelete", ctx, current.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()
		d.outboxRepo.On("Create", ctx, mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
			return e.EventType == messagesDomain.EventMessageDeleted
		})).Return(nil).Once()

		msg, err := uc.SoftDelete(ctx, current.ID)

		require.NoError(t, err)
		assert.True(t, msg.IsDeleted)
		assert.Equal(t, oldKey, msg.Key)
		assert.Equal(t, oldContent, msg.Content)
		d.assertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})
		id := uuid.Must(uuid.NewV7())

		d.txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.messageRepo.On("Get", ctx, id).Return(nil, messagesDomain.ErrMessageNotFound).Once()

		msg, err := uc.SoftDelete(ctx, id)

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, messagesDomain.ErrMessageNotFound)
	})

	t.Run("Error_TransactionBegin", func(t *testing.T) {
		d := newTestDeps()
		uc := d.useCase(Config{})
		txErr := errors.New("begin failed")

		d.txManager.On("WithTx", ctx, mock.Anything).Return(txErr).Once()

		msg, err := uc.SoftDelete(ctx, uuid.Must(uuid.NewV7()))

		assert.Nil(t, msg)
		assert.ErrorIs(t, err, txErr)
		d.messageRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
