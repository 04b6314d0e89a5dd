package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/cipherchat/internal/auth/service"
	apperrors "github.com/allisson/cipherchat/internal/errors"
	"github.com/allisson/cipherchat/internal/httputil"
)

// AuthenticationMiddleware verifies the Bearer token in the Authorization
// header and stores the sender id in the request context.
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
// Missing, malformed, badly signed or expired tokens get 401. The token itself
// is never logged.
//
// Usage:
//
//	router.Use(AuthenticationMiddleware(tokenService, logger))
//	router.GET("/protected", func(c *gin.Context) {
//	    senderID, _ := GetSender(c.Request.Context())
//	})
func AuthenticationMiddleware(tokenService authService.TokenService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		senderID, err := tokenService.Parse(plainToken)
		if err != nil {
			logger.Debug("authentication failed", slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithSender(c.Request.Context(), senderID)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful", slog.String("sender_id", senderID.String()))

		c.Next()
	}
}
