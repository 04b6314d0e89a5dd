// Package dto provides data transfer objects for the message HTTP API.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	customValidation "github.com/allisson/cipherchat/internal/validation"
)

// CreateMessageRequest is the body of POST /v1/messages.
type CreateMessageRequest struct {
	Content        string `json:"content"`
	ChatID         string `json:"chatId"`
	EncryptionType string `json:"encryptionType,omitempty"`
}

// Validate checks if the create message request is valid.
func (r *CreateMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.Required, customValidation.NotBlank, customValidation.ValidUTF8),
		validation.Field(&r.ChatID, validation.Required, customValidation.UUID),
		validation.Field(&r.EncryptionType, customValidation.EncryptionType),
	)
}

// ChatUUID returns the parsed chat id. Call after Validate.
func (r *CreateMessageRequest) ChatUUID() uuid.UUID {
	return uuid.MustParse(r.ChatID)
}

// Algorithm returns the requested tag or "" when the default applies. Call after Validate.
func (r *CreateMessageRequest) Algorithm() cryptoDomain.Algorithm {
	return parseOptionalAlgorithm(r.EncryptionType)
}

// EditMessageRequest is the body of PUT /v1/messages/:id.
type EditMessageRequest struct {
	Content        string `json:"content"`
	EncryptionType string `json:"encryptionType,omitempty"`
}

// Validate checks if the edit message request is valid.
func (r *EditMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, validation.Required, customValidation.NotBlank, customValidation.ValidUTF8),
		validation.Field(&r.EncryptionType, customValidation.EncryptionType),
	)
}

// Algorithm returns the requested tag or "" to keep the current one. Call after Validate.
func (r *EditMessageRequest) Algorithm() cryptoDomain.Algorithm {
	return parseOptionalAlgorithm(r.EncryptionType)
}

func parseOptionalAlgorithm(s string) cryptoDomain.Algorithm {
	if s == "" {
		return ""
	}
	alg, err := cryptoDomain.ParseAlgorithm(s)
	if err != nil {
		return cryptoDomain.Algorithm(s)
	}
	return alg
}
