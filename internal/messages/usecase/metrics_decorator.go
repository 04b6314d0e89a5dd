package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	apperrors "github.com/allisson/cipherchat/internal/errors"
	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
	"github.com/allisson/cipherchat/internal/metrics"
)

// messageUseCaseWithMetrics decorates MessageUseCase with metrics instrumentation.
type messageUseCaseWithMetrics struct {
	next    MessageUseCase
	metrics metrics.BusinessMetrics
}

// NewMessageUseCaseWithMetrics wraps a MessageUseCase with metrics recording.
func NewMessageUseCaseWithMetrics(useCase MessageUseCase, m metrics.BusinessMetrics) MessageUseCase {
	return &messageUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for message creation.
func (m *messageUseCaseWithMetrics) Create(
	ctx context.Context,
	senderID, chatID uuid.UUID,
	content string,
	alg cryptoDomain.Algorithm,
) (*messagesDomain.Message, error) {
	start := time.Now()
	msg, err := m.next.Create(ctx, senderID, chatID, content, alg)

	m.record(ctx, "message_create", start, err)
	m.recordEncrypt(ctx, msg, alg, err)

	return msg, err
}

// ListByChat records metrics for chat listing plus one decrypt outcome per
// message, labeled with the message's own algorithm.
func (m *messageUseCaseWithMetrics) ListByChat(
	ctx context.Context,
	chatID uuid.UUID,
) ([]*messagesDomain.Message, error) {
	start := time.Now()
	messages, err := m.next.ListByChat(ctx, chatID)

	m.record(ctx, "message_list", start, err)

	for _, msg := range messages {
		status := "success"
		if msg.DecryptionFailed {
			status = "error"
		}
		m.metrics.RecordCipherOperation(ctx, "decrypt", string(msg.EncryptionType), status)
	}

	return messages, err
}

// Edit records metrics for message edits.
func (m *messageUseCaseWithMetrics) Edit(
	ctx context.Context,
	id uuid.UUID,
	content string,
	alg cryptoDomain.Algorithm,
) (*messagesDomain.Message, error) {
	start := time.Now()
	msg, err := m.next.Edit(ctx, id, content, alg)

	m.record(ctx, "message_edit", start, err)
	m.recordEncrypt(ctx, msg, alg, err)

	return msg, err
}

// SoftDelete records metrics for message deletion.
func (m *messageUseCaseWithMetrics) SoftDelete(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error) {
	start := time.Now()
	msg, err := m.next.SoftDelete(ctx, id)

	m.record(ctx, "message_delete", start, err)

	return msg, err
}

func (m *messageUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "messages", operation, status)
	m.metrics.RecordDuration(ctx, "messages", operation, time.Since(start), status)
}

// recordEncrypt counts successful encryptions and those that failed inside the
// cipher. Store and validation failures are not cipher outcomes.
func (m *messageUseCaseWithMetrics) recordEncrypt(
	ctx context.Context,
	msg *messagesDomain.Message,
	alg cryptoDomain.Algorithm,
	err error,
) {
	switch {
	case err == nil && msg != nil:
		m.metrics.RecordCipherOperation(ctx, "encrypt", string(msg.EncryptionType), "success")
	case errors.Is(err, apperrors.ErrCryptoFailure):
		m.metrics.RecordCipherOperation(ctx, "encrypt", string(alg), "error")
	}
}
