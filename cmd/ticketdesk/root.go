// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
	"github.com/ticketdesk/ticketdesk/lib/version"
)

// logLevel is shared by the root logger and every loaded
// configuration, so log.level takes effect once a command has read
// its config file.
var logLevel = new(slog.LevelVar)

func rootCommand() *cli.Command {
	return &cli.Command{
		Name: "ticketdesk",
		Description: `ticketdesk: support ticket dashboard for the terminal.

Browse, filter, and edit tickets, follow each ticket's activity
timeline, and run AI summaries, suggested replies, and priority
classification. Run "ticketdesk viewer" for the interactive dashboard.`,
		Logger: cli.NewCommandLogger(logLevel),
		Subcommands: []*cli.Command{
			viewerCommand(),
			listCommand(),
			showCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
			trashCommand(),
			restoreCommand(),
			purgeCommand(),
			eventsCommand(),
			aiCommand(),
			statsCommand(),
			authCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(context.Context, []string, *slog.Logger) error {
			if done, err := params.EmitJSON(version.Current()); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "ticketdesk %s\n", version.Full())
			return nil
		},
	}
}
