// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
)

// redacted replaces an inline token in printed configuration.
const redacted = "<redacted>"

func configCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Inspect the configuration",
		Usage:   "ticketdesk config show [flags]",
		Subcommands: []*cli.Command{
			configShowCommand(),
		},
	}
}

type configShowParams struct {
	Connection
	cli.JSONOutput
}

func configShowCommand() *cli.Command {
	var params configShowParams

	return &cli.Command{
		Name:    "show",
		Summary: "Print the effective configuration",
		Description: `Print the configuration after the environment section, environment
variables, and flags have been applied. An inline token is redacted.`,
		Usage:  "ticketdesk config show [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			cfg, err := params.loadConfig()
			if err != nil {
				return err
			}
			effective := *cfg
			effective.Development = nil
			effective.Staging = nil
			effective.Production = nil
			if effective.Auth.Token != "" {
				effective.Auth.Token = redacted
			}
			if done, err := params.EmitJSON(effective); done {
				return err
			}
			encoder := yaml.NewEncoder(cli.Stdout)
			encoder.SetIndent(2)
			if err := encoder.Encode(effective); err != nil {
				return err
			}
			return encoder.Close()
		},
	}
}
