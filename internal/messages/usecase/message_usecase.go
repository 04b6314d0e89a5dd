package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	cryptoService "github.com/allisson/cipherchat/internal/crypto/service"
	"github.com/allisson/cipherchat/internal/database"
	apperrors "github.com/allisson/cipherchat/internal/errors"
	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
	outboxDomain "github.com/allisson/cipherchat/internal/outbox/domain"
)

// Config holds message use case configuration.
type Config struct {
	// DefaultAlgorithm is used when a create request names no algorithm.
	DefaultAlgorithm cryptoDomain.Algorithm
	// DecryptWorkers bounds parallel decryption in ListByChat. Zero means runtime.NumCPU().
	DecryptWorkers int
}

// messageUseCase implements the MessageUseCase interface.
type messageUseCase struct {
	config      Config
	txManager   database.TxManager
	messageRepo MessageRepository
	outboxRepo  OutboxEventRepository
	cipher      cryptoService.MessageCipher
	logger      *slog.Logger
}

// Create encrypts content and persists the message with its outbox event.
func (m *messageUseCase) Create(
	ctx context.Context,
	senderID, chatID uuid.UUID,
	content string,
	alg cryptoDomain.Algorithm,
) (*messagesDomain.Message, error) {
	if alg == "" {
		alg = m.config.DefaultAlgorithm
	}

	key, ciphertext, err := m.cipher.Encrypt(content, alg)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &messagesDomain.Message{
		ID:             uuid.Must(uuid.NewV7()),
		SenderID:       senderID,
		ChatID:         chatID,
		Content:        ciphertext,
		Key:            key,
		EncryptionType: alg,
		CreatedAt:      now,
		UpdatedAt:      now,
		Plaintext:      content,
	}

	err = m.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := m.messageRepo.Create(txCtx, msg); err != nil {
			return err
		}
		return m.appendEvent(txCtx, messagesDomain.EventMessageCreated, msg)
	})
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// ListByChat loads the chat's messages and decrypts them in parallel.
func (m *messageUseCase) ListByChat(
	ctx context.Context,
	chatID uuid.UUID,
) ([]*messagesDomain.Message, error) {
	messages, err := m.messageRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers())

	for _, msg := range messages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.decrypt(msg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return messages, nil
}

// Edit re-encrypts the message content under a fresh key.
func (m *messageUseCase) Edit(
	ctx context.Context,
	id uuid.UUID,
	content string,
	alg cryptoDomain.Algorithm,
) (*messagesDomain.Message, error) {
	var msg *messagesDomain.Message

	err := m.txManager.WithTx(ctx, func(txCtx context.Context) error {
		current, err := m.messageRepo.Get(txCtx, id)
		if err != nil {
			return err
		}

		target := alg
		if target == "" {
			target = current.EncryptionType
		}

		key, ciphertext, err := m.cipher.Encrypt(content, target)
		if err != nil {
			return err
		}

		current.Content = ciphertext
		current.Key = key
		current.EncryptionType = target
		current.UpdatedAt = time.Now().UTC()
		current.Plaintext = content

		if err := m.messageRepo.UpdateContent(txCtx, current); err != nil {
			return err
		}

		msg = current
		return m.appendEvent(txCtx, messagesDomain.EventMessageEdited, current)
	})
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// SoftDelete flags the message as deleted.
func (m *messageUseCase) SoftDelete(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error) {
	var msg *messagesDomain.Message

	err := m.txManager.WithTx(ctx, func(txCtx context.Context) error {
		current, err := m.messageRepo.Get(txCtx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := m.messageRepo.SoftDelete(txCtx, id, now); err != nil {
			return err
		}

		current.IsDeleted = true
		current.UpdatedAt = now

		msg = current
		return m.appendEvent(txCtx, messagesDomain.EventMessageDeleted, current)
	})
	if err != nil {
		return nil, err
	}

	return msg, nil
}

// decrypt fills msg.Plaintext, substituting the placeholder on failure.
func (m *messageUseCase) decrypt(msg *messagesDomain.Message) {
	plaintext, err := m.cipher.Decrypt(msg.Content, msg.Key, msg.EncryptionType)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("failed to decrypt message",
				slog.String("message_id", msg.ID.String()),
				slog.String("chat_id", msg.ChatID.String()),
				slog.String("encryption_type", string(msg.EncryptionType)),
				slog.Any("error", err),
			)
		}
		msg.Plaintext = messagesDomain.DecryptionFailedPlaceholder
		msg.DecryptionFailed = true
		return
	}

	msg.Plaintext = plaintext
}

// appendEvent writes the outbox event for msg using the transaction in ctx.
func (m *messageUseCase) appendEvent(ctx context.Context, eventType string, msg *messagesDomain.Message) error {
	payload, err := json.Marshal(messagesDomain.NewMessageEvent(msg))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message event")
	}

	now := time.Now().UTC()
	event := &outboxDomain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(payload),
		Status:    outboxDomain.OutboxEventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return m.outboxRepo.Create(ctx, event)
}

func (m *messageUseCase) workers() int {
	if m.config.DecryptWorkers > 0 {
		return m.config.DecryptWorkers
	}
	return runtime.NumCPU()
}

// NewMessageUseCase creates a new message use case instance with the provided dependencies.
func NewMessageUseCase(
	config Config,
	txManager database.TxManager,
	messageRepo MessageRepository,
	outboxRepo OutboxEventRepository,
	cipher cryptoService.MessageCipher,
	logger *slog.Logger,
) MessageUseCase {
	if config.DefaultAlgorithm == "" {
		config.DefaultAlgorithm = cryptoDomain.RC5
	}

	return &messageUseCase{
		config:      config,
		txManager:   txManager,
		messageRepo: messageRepo,
		outboxRepo:  outboxRepo,
		cipher:      cipher,
		logger:      logger,
	}
}
