package dto

import (
	"time"

	messagesDomain "github.com/allisson/cipherchat/internal/messages/domain"
)

// MessageResponse represents a message in API responses. The per-message key
// is never included.
type MessageResponse struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"senderId"`
	ChatID         string    `json:"chatId"`
	Content        string    `json:"content"`
	EncryptionType string    `json:"encryptionType"`
	IsDeleted      bool      `json:"isDeleted"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ListMessagesResponse wraps the messages of a chat.
type ListMessagesResponse struct {
	Data []MessageResponse `json:"data"`
}

// MapMessageToResponse returns the stored form, with ciphertext content.
func MapMessageToResponse(msg *messagesDomain.Message) MessageResponse {
	return MessageResponse{
		ID:             msg.ID.String(),
		SenderID:       msg.SenderID.String(),
		ChatID:         msg.ChatID.String(),
		Content:        msg.Content,
		EncryptionType: string(msg.EncryptionType),
		IsDeleted:      msg.IsDeleted,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      msg.UpdatedAt,
	}
}

// mapMessageToPlaintextResponse returns the message with decrypted content.
func mapMessageToPlaintextResponse(msg *messagesDomain.Message) MessageResponse {
	response := MapMessageToResponse(msg)
	response.Content = msg.Plaintext
	return response
}

// MapMessagesToListResponse maps decrypted messages, keeping their order.
func MapMessagesToListResponse(messages []*messagesDomain.Message) ListMessagesResponse {
	data := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		data = append(data, mapMessageToPlaintextResponse(msg))
	}
	return ListMessagesResponse{Data: data}
}
