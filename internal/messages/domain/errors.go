package domain

import (
	"github.com/allisson/cipherchat/internal/errors"
)

// Message-specific error definitions.
var (
	// ErrMessageNotFound indicates no message exists with the given id.
	ErrMessageNotFound = errors.Wrap(errors.ErrNotFound, "message not found")
)
