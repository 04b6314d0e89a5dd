package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/cipherchat/internal/auth/domain"
	apperrors "github.com/allisson/cipherchat/internal/errors"
)

const tokenIssuer = "cipherchat"

// claims carries the sender id in the standard subject claim.
type claims struct {
	jwt.RegisteredClaims
}

// tokenService implements TokenService with HS256 JSON Web Tokens.
type tokenService struct {
	signingSecret []byte
	expiration    time.Duration
	now           func() time.Time
}

// Issue signs a token whose subject is senderID.
func (t *tokenService) Issue(senderID uuid.UUID) (*authDomain.Token, error) {
	now := t.now()
	expiresAt := now.Add(t.expiration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   senderID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	plainToken, err := token.SignedString(t.signingSecret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign token")
	}

	return &authDomain.Token{
		PlainToken: plainToken,
		SenderID:   senderID,
		ExpiresAt:  expiresAt,
	}, nil
}

// Parse verifies plainToken and returns its sender id.
func (t *tokenService) Parse(plainToken string) (uuid.UUID, error) {
	parsed := &claims{}

	token, err := jwt.ParseWithClaims(
		plainToken,
		parsed,
		func(*jwt.Token) (interface{}, error) {
			return t.signingSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(authDomain.ErrInvalidToken, err.Error())
	}

	if !token.Valid {
		return uuid.Nil, authDomain.ErrInvalidToken
	}

	senderID, err := uuid.Parse(parsed.Subject)
	if err != nil || senderID == uuid.Nil {
		return uuid.Nil, authDomain.ErrInvalidSender
	}

	return senderID, nil
}

// NewTokenService creates a TokenService signing with signingSecret.
// Tokens expire after expiration.
func NewTokenService(signingSecret []byte, expiration time.Duration) TokenService {
	return &tokenService{
		signingSecret: signingSecret,
		expiration:    expiration,
		now:           time.Now,
	}
}
