package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cipherchat/cmd/app/commands"
	"github.com/allisson/cipherchat/internal/app"
	"github.com/allisson/cipherchat/internal/config"
)

func algorithmFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "algorithm",
		Aliases: []string{"alg"},
		Value:   "rc5",
		Usage:   "Block cipher to use (rc5 or rc6)",
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// getCryptoCommands returns the offline gateway tools. They need no database.
func getCryptoCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt text with a fresh key and print the key and ciphertext",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "text",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Plaintext to encrypt",
				},
				algorithmFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunEncrypt(
					container.MessageCipher(),
					container.Logger(),
					cmd.String("text"),
					cmd.String("algorithm"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a hex ciphertext with its hex key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "ciphertext",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Hex encoded ciphertext",
				},
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Hex encoded key",
				},
				algorithmFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunDecrypt(
					container.MessageCipher(),
					container.Logger(),
					cmd.String("ciphertext"),
					cmd.String("key"),
					cmd.String("algorithm"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
