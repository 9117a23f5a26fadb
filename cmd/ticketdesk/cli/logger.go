// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for CLI commands. When
// stderr is a terminal it uses slog.TextHandler for human-readable
// output; when piped or redirected it uses slog.JSONHandler so scripts
// and CI can parse it. Pass a *slog.LevelVar to adjust the level after
// the configuration is loaded.
func NewCommandLogger(level slog.Leveler) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
