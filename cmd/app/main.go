// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	commands := append(getSystemCommands(version), getCryptoCommands()...)
	commands = append(commands, getAuthCommands()...)

	cmd := &cli.Command{
		Name:     "cipherchat",
		Usage:    "Chat message service with RC5/RC6 encrypted content",
		Version:  version,
		Commands: commands,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
