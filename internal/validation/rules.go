// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	apperrors "github.com/allisson/cipherchat/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// ValidUTF8 rejects strings that are not valid UTF-8.
var ValidUTF8 = validation.NewStringRuleWithError(
	utf8.ValidString,
	validation.NewError("validation_utf8", "must be valid UTF-8 text"),
)

// UUID validates a canonical UUID string. Empty values are left to Required.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		id, err := uuid.Parse(s)
		return err == nil && id != uuid.Nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// EncryptionType validates an algorithm tag. Empty values are left to Required.
var EncryptionType = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := cryptoDomain.ParseAlgorithm(s)
		return err == nil
	},
	validation.NewError("validation_encryption_type", "must be one of: rc5, rc6"),
)
