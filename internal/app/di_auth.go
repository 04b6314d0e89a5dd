package app

import (
	authService "github.com/allisson/cipherchat/internal/auth/service"
)

// TokenService returns the bearer token service built from the configured signing secret.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = c.initTokenService()
	})
	return c.tokenService
}

func (c *Container) initTokenService() authService.TokenService {
	return authService.NewTokenService([]byte(c.config.AuthSigningSecret), c.config.AuthTokenExpiration)
}
