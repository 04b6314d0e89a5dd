// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"context"

	"github.com/google/uuid"
)

// senderKey is a context key type for storing the authenticated sender id.
type senderKey struct{}

// WithSender stores the authenticated sender id in the context.
func WithSender(ctx context.Context, senderID uuid.UUID) context.Context {
	return context.WithValue(ctx, senderKey{}, senderID)
}

// GetSender retrieves the authenticated sender id from the context.
// Returns (uuid.Nil, false) if no sender was set.
func GetSender(ctx context.Context) (uuid.UUID, bool) {
	senderID, ok := ctx.Value(senderKey{}).(uuid.UUID)
	return senderID, ok && senderID != uuid.Nil
}
