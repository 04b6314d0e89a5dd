// Package mocks provides testify mocks for auth services.
package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/cipherchat/internal/auth/domain"
)

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(senderID uuid.UUID) (*authDomain.Token, error) {
	args := m.Called(senderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

func (m *MockTokenService) Parse(plainToken string) (uuid.UUID, error) {
	args := m.Called(plainToken)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
