package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cipherchat/cmd/app/commands"
	"github.com/allisson/cipherchat/internal/app"
	"github.com/allisson/cipherchat/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-token",
			Usage: "Issue a development bearer token for a sender",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "sender-id",
					Aliases: []string{"s"},
					Usage:   "Sender ID (UUID). A new one is generated when omitted",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if len(cfg.AuthSigningSecret) < config.MinSigningSecretLength {
					return fmt.Errorf(
						"AUTH_SIGNING_SECRET must be at least %d bytes",
						config.MinSigningSecretLength,
					)
				}

				container := app.NewContainer(cfg)
				return commands.RunIssueToken(
					container.TokenService(),
					container.Logger(),
					cmd.String("sender-id"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
