// Package service provides the message cipher pipeline: RC5 and RC6 block
// ciphers, the length-tagged block codec, and the gateway that turns text into
// a (key, ciphertext) pair and back.
package service

import (
	"crypto/cipher"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
)

// BlockCipherManager defines the interface for creating block cipher instances.
type BlockCipherManager interface {
	// CreateCipher runs the key schedule for the algorithm and returns a block
	// cipher holding the expanded key. Returns ErrInvalidKeyLength when the key
	// length is outside the accepted range and ErrUnsupportedAlgorithm for
	// unknown tags.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (cipher.Block, error)
}

// MessageCipher is the single entry point the message store uses for content
// encryption. Keys and ciphertext travel as lowercase hex.
type MessageCipher interface {
	// Encrypt generates a fresh key and returns it with the ciphertext.
	Encrypt(plaintext string, alg cryptoDomain.Algorithm) (key string, ciphertext string, err error)

	// Decrypt recovers the plaintext stored with key and alg.
	Decrypt(ciphertext, key string, alg cryptoDomain.Algorithm) (string, error)
}
