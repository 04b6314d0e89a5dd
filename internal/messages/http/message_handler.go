// Package http provides HTTP handlers for chat messages. Message content is
// encrypted by the use case before storage and decrypted when a chat is listed.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/cipherchat/internal/auth/http"
	apperrors "github.com/allisson/cipherchat/internal/errors"
	"github.com/allisson/cipherchat/internal/httputil"
	"github.com/allisson/cipherchat/internal/messages/http/dto"
	messagesUseCase "github.com/allisson/cipherchat/internal/messages/usecase"
	customValidation "github.com/allisson/cipherchat/internal/validation"
)

// MessageHandler handles HTTP requests for message operations.
type MessageHandler struct {
	messageUseCase messagesUseCase.MessageUseCase
	logger         *slog.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageUseCase messagesUseCase.MessageUseCase, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
		logger:         logger,
	}
}

// CreateHandler encrypts and stores a new message from the authenticated sender.
// POST /v1/messages
// Returns 201 Created with the stored (ciphertext) record.
func (h *MessageHandler) CreateHandler(c *gin.Context) {
	senderID, ok := authHTTP.GetSender(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	msg, err := h.messageUseCase.Create(
		c.Request.Context(),
		senderID,
		req.ChatUUID(),
		req.Content,
		req.Algorithm(),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapMessageToResponse(msg))
}

// ListByChatHandler returns a chat's messages with decrypted content.
// GET /v1/chats/:chatId/messages
// Messages that fail to decrypt carry a placeholder instead of failing the request.
func (h *MessageHandler) ListByChatHandler(c *gin.Context) {
	chatID, err := parseUUIDParam(c, "chatId")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	messages, err := h.messageUseCase.ListByChat(c.Request.Context(), chatID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessagesToListResponse(messages))
}

// EditHandler re-encrypts a message with new content.
// PUT /v1/messages/:id
func (h *MessageHandler) EditHandler(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	msg, err := h.messageUseCase.Edit(c.Request.Context(), id, req.Content, req.Algorithm())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessageToResponse(msg))
}

// DeleteHandler soft deletes a message.
// DELETE /v1/messages/:id
// Returns 200 OK with the record marked deleted.
func (h *MessageHandler) DeleteHandler(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	msg, err := h.messageUseCase.SoftDelete(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessageToResponse(msg))
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid %s: must be a valid UUID", name)
	}
	return id, nil
}
