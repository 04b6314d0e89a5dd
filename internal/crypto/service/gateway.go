package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
	apperrors "github.com/allisson/cipherchat/internal/errors"
)

// Gateway implements MessageCipher on top of a BlockCipherManager.
//
// It keeps no per-call state. Keys come from crypto/rand, which is safe for
// concurrent use, so one Gateway can serve every request.
type Gateway struct {
	manager BlockCipherManager
	random  io.Reader
}

// NewGateway creates a Gateway that draws keys from crypto/rand.
func NewGateway(manager BlockCipherManager) *Gateway {
	return NewGatewayWithRandom(manager, rand.Reader)
}

// NewGatewayWithRandom creates a Gateway with a custom key source.
func NewGatewayWithRandom(manager BlockCipherManager, random io.Reader) *Gateway {
	return &Gateway{
		manager: manager,
		random:  random,
	}
}

// Encrypt generates a fresh key for alg, encrypts the framed plaintext and
// returns both as lowercase hex.
func (g *Gateway) Encrypt(plaintext string, alg cryptoDomain.Algorithm) (string, string, error) {
	params, err := alg.Params()
	if err != nil {
		return "", "", err
	}

	if !utf8.ValidString(plaintext) {
		return "", "", apperrors.Wrap(apperrors.ErrInvalidInput, "message content must be valid UTF-8")
	}

	key := make([]byte, params.KeyLength)
	defer cryptoDomain.Zero(key)

	if _, err := io.ReadFull(g.random, key); err != nil {
		return "", "", fmt.Errorf("%w: failed to generate key: %w", cryptoDomain.ErrEncryptionFailed, err)
	}

	block, err := g.manager.CreateCipher(key, alg)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", cryptoDomain.ErrEncryptionFailed, err)
	}

	framed, err := Frame([]byte(plaintext), block.BlockSize())
	if err != nil {
		return "", "", err
	}

	encryptBlocks(block, framed)

	return EncodeHex(key), EncodeHex(framed), nil
}

// Decrypt recovers the plaintext of a stored message.
//
// An unknown alg is reported as ErrUnsupportedAlgorithm. Every other failure
// is reported as ErrDecryptionFailed with the cause kept in the chain.
func (g *Gateway) Decrypt(ciphertext, key string, alg cryptoDomain.Algorithm) (string, error) {
	if !alg.IsSupported() {
		return "", cryptoDomain.ErrUnsupportedAlgorithm
	}

	keyBytes, err := hex.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("%w: invalid key encoding", cryptoDomain.ErrDecryptionFailed)
	}
	defer cryptoDomain.Zero(keyBytes)

	block, err := g.manager.CreateCipher(keyBytes, alg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoDomain.ErrDecryptionFailed, err)
	}

	data, err := DecodeHex(ciphertext, block.BlockSize())
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoDomain.ErrDecryptionFailed, err)
	}

	decryptBlocks(block, data)

	plaintext, err := Unframe(data, block.BlockSize())
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoDomain.ErrDecryptionFailed, err)
	}

	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", cryptoDomain.ErrDecryptionFailed)
	}

	return string(plaintext), nil
}
