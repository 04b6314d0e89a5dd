package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authService "github.com/allisson/cipherchat/internal/auth/service"
	apperrors "github.com/allisson/cipherchat/internal/errors"
)

// RunIssueToken signs a bearer token for senderID. An empty senderID gets a
// freshly generated one, handy for local development.
func RunIssueToken(
	tokenService authService.TokenService,
	logger *slog.Logger,
	senderID string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	sender := uuid.Must(uuid.NewV7())
	if senderID != "" {
		parsed, err := uuid.Parse(senderID)
		if err != nil || parsed == uuid.Nil {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "sender id must be a valid UUID")
		}
		sender = parsed
	}

	token, err := tokenService.Issue(sender)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("token issued",
		slog.String("sender_id", token.SenderID.String()),
		slog.Time("expires_at", token.ExpiresAt),
	)

	if format == "json" {
		return outputJSON(io.Writer, map[string]string{
			"token":     token.PlainToken,
			"senderId":  token.SenderID.String(),
			"expiresAt": token.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}

	_, _ = fmt.Fprintf(io.Writer, "Sender ID: %s\n", token.SenderID)
	_, _ = fmt.Fprintf(io.Writer, "Expires at: %s\n", token.ExpiresAt.UTC().Format(time.RFC3339))
	_, _ = fmt.Fprintf(io.Writer, "Token: %s\n", token.PlainToken)
	_, _ = fmt.Fprintln(io.Writer, "\nUse it as: Authorization: Bearer <token>")
	return nil
}
