// Package domain defines the chat message model. Message content is stored as
// ciphertext together with the per-message key and the algorithm tag needed to
// read it back.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
)

// DecryptionFailedPlaceholder replaces the content of a message that could not
// be decrypted when listing a chat.
const DecryptionFailedPlaceholder = "[unable to decrypt message]"

// Message represents a chat message as persisted by the message store.
type Message struct {
	// ID is the unique identifier of the message.
	ID uuid.UUID
	// SenderID identifies the authenticated sender.
	SenderID uuid.UUID
	// ChatID identifies the chat the message belongs to.
	ChatID uuid.UUID
	// Content is the lowercase hex ciphertext.
	Content string
	// Key is the lowercase hex per-message key. It is stored with the record
	// and must never be logged or returned to clients.
	Key string `json:"-"`
	// EncryptionType is the algorithm tag used for Content.
	EncryptionType cryptoDomain.Algorithm
	// IsDeleted marks a soft-deleted message. Content and key are kept.
	IsDeleted bool
	// CreatedAt is the UTC creation time.
	CreatedAt time.Time
	// UpdatedAt is the UTC time of the last edit or delete.
	UpdatedAt time.Time

	// Plaintext holds the decrypted content in memory only.
	Plaintext string `json:"-"`
	// DecryptionFailed is set when Plaintext holds the placeholder.
	DecryptionFailed bool `json:"-"`
}
