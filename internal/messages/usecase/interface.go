// Package usecase implements the message store adapter: it encrypts content
// before persistence and decrypts it on read, keeping every write of content,
// key and algorithm tag in a single transaction.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
	outboxDomain "github.com/allisson/cipherchat/internal/outbox/domain"
)

// MessageRepository defines the interface for Message persistence operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *messagesDomain.Message) error
	Get(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error)
	// ListByChat returns every message of the chat ordered by creation time.
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]*messagesDomain.Message, error)
	// UpdateContent overwrites content, key, encryption type and updated_at in one statement.
	UpdateContent(ctx context.Context, msg *messagesDomain.Message) error
	SoftDelete(ctx context.Context, id uuid.UUID, updatedAt time.Time) error
}

// OutboxEventRepository appends events in the caller's transaction.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// MessageUseCase defines the interface for message business logic.
type MessageUseCase interface {
	// Create encrypts content and stores a new message. An empty alg selects
	// the configured default.
	Create(
		ctx context.Context,
		senderID, chatID uuid.UUID,
		content string,
		alg cryptoDomain.Algorithm,
	) (*messagesDomain.Message, error)

	// ListByChat returns the chat's messages in chronological order with
	// Plaintext populated. A message that fails to decrypt carries
	// DecryptionFailedPlaceholder instead of failing the whole list.
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]*messagesDomain.Message, error)

	// Edit re-encrypts content under a fresh key. An empty alg keeps the
	// message's current algorithm.
	Edit(
		ctx context.Context,
		id uuid.UUID,
		content string,
		alg cryptoDomain.Algorithm,
	) (*messagesDomain.Message, error)

	// SoftDelete marks the message deleted. Content and key are left untouched.
	SoftDelete(ctx context.Context, id uuid.UUID) (*messagesDomain.Message, error)
}
