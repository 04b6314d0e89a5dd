package domain

import (
	"github.com/allisson/cipherchat/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidToken indicates a bearer token that is malformed, badly signed or expired.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrInvalidSender indicates a token subject that is not a valid sender id.
	ErrInvalidSender = errors.Wrap(errors.ErrUnauthorized, "invalid sender")
)
