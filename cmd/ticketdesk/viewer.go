// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
	"github.com/ticketdesk/ticketdesk/lib/clock"
	"github.com/ticketdesk/ticketdesk/lib/ticketui"
	"github.com/ticketdesk/ticketdesk/lib/tui"
)

type viewerParams struct {
	Connection
	Theme string `json:"theme" flag:"theme" desc:"color theme (dark, light, auto), overriding ui.theme"`
}

func viewerCommand() *cli.Command {
	var params viewerParams

	return &cli.Command{
		Name:    "viewer",
		Summary: "Open the interactive dashboard",
		Description: `Open the full-screen dashboard: the ticket list with filters and
search, the ticket detail with its activity timeline, the trash, and
the statistics view. Tickets with AI jobs in flight refresh on their
own until the jobs finish.

Press ? inside the dashboard for the key bindings.`,
		Usage:  "ticketdesk viewer [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if !term.IsTerminal(0) || !term.IsTerminal(1) {
				return cli.Validation("the dashboard needs an interactive terminal").
					WithHint("Use \"ticketdesk list\" and \"ticketdesk show\" in scripts.")
			}

			// Log records become status bar notices while the
			// program owns the screen.
			handler := ticketui.NewTUILogHandler(logLevel)
			logger := slog.New(handler)

			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			themeName := s.config.UI.Theme
			if params.Theme != "" {
				themeName = params.Theme
			}
			model := ticketui.NewModel(ticketui.Config{
				Source:        s.cached,
				Clock:         clock.Real(),
				Theme:         tui.ThemeFor(themeName),
				PageSize:      s.config.UI.PageSize,
				ActivityLimit: s.config.UI.ActivityLimit,
				Location:      s.location,
				Logger:        logger,
				Context:       ctx,
			})
			defer model.Close()

			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			handler.SetProgram(program)
			if _, err := program.Run(); err != nil && ctx.Err() == nil {
				return fmt.Errorf("running dashboard: %w", err)
			}
			return nil
		},
	}
}
