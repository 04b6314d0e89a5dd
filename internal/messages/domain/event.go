package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
)

// Event types appended to the outbox by message writes.
const (
	EventMessageCreated = "message.created"
	EventMessageEdited  = "message.edited"
	EventMessageDeleted = "message.deleted"
)

// MessageEvent is the outbox payload for message writes. It carries ids and
// the algorithm tag only, never content or key material.
type MessageEvent struct {
	MessageID      uuid.UUID              `json:"message_id"`
	ChatID         uuid.UUID              `json:"chat_id"`
	SenderID       uuid.UUID              `json:"sender_id"`
	EncryptionType cryptoDomain.Algorithm `json:"encryption_type"`
	OccurredAt     time.Time              `json:"occurred_at"`
}

// NewMessageEvent builds the event payload for msg.
func NewMessageEvent(msg *Message) MessageEvent {
	return MessageEvent{
		MessageID:      msg.ID,
		ChatID:         msg.ChatID,
		SenderID:       msg.SenderID,
		EncryptionType: msg.EncryptionType,
		OccurredAt:     msg.UpdatedAt,
	}
}
