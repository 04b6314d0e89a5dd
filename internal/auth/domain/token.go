// Package domain defines the authenticated identity used by the message API.
// Tokens are issued elsewhere; this service only verifies them and extracts
// the sender id.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a signed bearer token bound to a sender.
type Token struct {
	PlainToken string
	SenderID   uuid.UUID
	ExpiresAt  time.Time
}
