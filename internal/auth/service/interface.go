// Package service provides bearer token signing and verification.
package service

import (
	"github.com/google/uuid"

	authDomain "github.com/allisson/cipherchat/internal/auth/domain"
)

// TokenService issues and verifies bearer tokens carrying a sender id.
type TokenService interface {
	// Issue signs a token for senderID. The plain token must only be shown once.
	Issue(senderID uuid.UUID) (*authDomain.Token, error)

	// Parse verifies signature and expiry and returns the sender id.
	Parse(plainToken string) (uuid.UUID, error)
}
