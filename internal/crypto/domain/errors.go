package domain

import (
	"github.com/allisson/cipherchat/internal/errors"
)

// Cryptographic operation error definitions.
//
// Key, ciphertext and decryption failures wrap errors.ErrCryptoFailure so the
// HTTP layer reports them with one generic message. An unknown algorithm tag
// is a caller mistake and wraps errors.ErrInvalidInput.
var (
	// ErrUnsupportedAlgorithm indicates the algorithm tag is not rc5 or rc6.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeyLength indicates the key length is outside the range accepted
	// by the algorithm's key schedule.
	ErrInvalidKeyLength = errors.Wrap(errors.ErrCryptoFailure, "invalid key length")

	// ErrCorruptCiphertext indicates the transport text is not valid hex, is not
	// a whole number of blocks, or its length tag and padding do not agree.
	ErrCorruptCiphertext = errors.Wrap(errors.ErrCryptoFailure, "corrupt ciphertext")

	// ErrDecryptionFailed is reported by the gateway for any decrypt-path failure.
	// The underlying cause stays in the chain for logging.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCryptoFailure, "decryption failed")

	// ErrEncryptionFailed is reported by the gateway for any encrypt-path failure.
	ErrEncryptionFailed = errors.Wrap(errors.ErrCryptoFailure, "encryption failed")
)
