package validation

import (
	"encoding/hex"

	validation "github.com/jellydator/validation"
)

// Hex validates that a string is an even-length hexadecimal encoding.
var Hex = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_hex_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := hex.DecodeString(s); err != nil {
		return validation.NewError("validation_hex", "must be valid hexadecimal data")
	}
	return nil
})
