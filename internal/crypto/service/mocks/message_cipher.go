// Package mocks provides mock implementations of the message cipher for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/cipherchat/internal/crypto/domain"
)

// MockMessageCipher is a mock implementation of MessageCipher for testing.
type MockMessageCipher struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of MessageCipher.
func (m *MockMessageCipher) Encrypt(plaintext string, alg cryptoDomain.Algorithm) (string, string, error) {
	args := m.Called(plaintext, alg)
	return args.String(0), args.String(1), args.Error(2)
}

// Decrypt mocks the Decrypt method of MessageCipher.
func (m *MockMessageCipher) Decrypt(ciphertext, key string, alg cryptoDomain.Algorithm) (string, error) {
	args := m.Called(ciphertext, key, alg)
	return args.String(0), args.Error(1)
}
