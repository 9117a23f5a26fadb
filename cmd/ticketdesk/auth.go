// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
	"github.com/ticketdesk/ticketdesk/lib/credential"
	"github.com/ticketdesk/ticketdesk/lib/sealed"
	"github.com/ticketdesk/ticketdesk/lib/secret"
)

func authCommand() *cli.Command {
	return &cli.Command{
		Name:    "auth",
		Summary: "Manage the API token",
		Description: `Manage the bearer token sent to the API. The token is taken from
TICKETDESK_TOKEN, then auth.token, then auth.token_file. A token file
may be sealed with age; auth.identity_file then names the identity
that opens it.`,
		Usage: "ticketdesk auth <keygen|seal|whoami> [flags]",
		Subcommands: []*cli.Command{
			authKeygenCommand(),
			authSealCommand(),
			authWhoamiCommand(),
		},
	}
}

type keygenParams struct {
	Connection
}

func authKeygenCommand() *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age identity for sealed tokens",
		Description: `Write a new age identity with mode 0600 and print its public key.
The path defaults to auth.identity_file. An existing file is never
overwritten.`,
		Usage:  "ticketdesk auth keygen [path]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			var path string
			switch len(args) {
			case 0:
				cfg, err := params.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Auth.IdentityFile
			case 1:
				path = args[0]
			default:
				return cli.Validation("expected at most one path, got %d arguments", len(args))
			}
			if path == "" {
				return cli.Validation("no identity path given").
					WithHint("Pass a path or set auth.identity_file in the config file.")
			}

			publicKey, err := credential.GenerateIdentity(path)
			if err != nil {
				if errors.Is(err, fs.ErrExist) {
					return cli.Conflict("%w", err)
				}
				return err
			}
			logger.Info("identity written", "path", path)
			fmt.Fprintln(cli.Stdout, publicKey)
			return nil
		},
	}
}

type sealParams struct {
	Recipients     []string `json:"recipients"      flag:"recipient,r"     desc:"age public key to seal to (repeatable)"`
	RecipientsFile string   `json:"recipients_file" flag:"recipients-file" desc:"file of age public keys, one per line"`
	Input          string   `json:"input"           flag:"input,i"         desc:"file holding the plaintext token, - for stdin" default:"-"`
	Output         string   `json:"output"          flag:"output,o"        desc:"sealed token file to write (default: stdout)"`
}

func authSealCommand() *cli.Command {
	var params sealParams

	return &cli.Command{
		Name:    "seal",
		Summary: "Seal a token to age recipients",
		Description: `Encrypt a plaintext token to one or more age public keys, producing
an armored file suitable for auth.token_file.`,
		Usage: "ticketdesk auth seal --recipient KEY [flags]",
		Examples: []cli.Example{
			{
				Description: "Seal a token read from stdin",
				Command:     "ticketdesk auth seal -r \"$(ticketdesk auth keygen ~/.config/ticketdesk/identity.txt)\" -o ~/.config/ticketdesk/token.age",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			recipients := append([]string(nil), params.Recipients...)
			if params.RecipientsFile != "" {
				file, err := os.Open(params.RecipientsFile)
				if err != nil {
					return cli.Validation("%w", err)
				}
				parsed, err := sealed.ParseRecipients(file)
				file.Close()
				if err != nil {
					return cli.Validation("%w", err)
				}
				recipients = append(recipients, parsed...)
			}
			if len(recipients) == 0 {
				return cli.Validation("at least one recipient is required").
					WithHint("Pass --recipient or --recipients-file.")
			}

			token, err := secret.ReadFile(params.Input)
			if err != nil {
				return cli.Validation("reading token: %w", err)
			}
			defer token.Close()

			ciphertext, err := credential.Seal(token, recipients)
			if err != nil {
				return cli.Validation("%w", err)
			}
			if params.Output == "" {
				_, err := cli.Stdout.Write(ciphertext)
				return err
			}
			if err := os.WriteFile(params.Output, ciphertext, 0600); err != nil {
				return err
			}
			logger.Info("sealed token written", "path", params.Output, "recipients", len(recipients))
			return nil
		},
	}
}

type whoamiParams struct {
	Connection
	cli.JSONOutput
}

func authWhoamiCommand() *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the authenticated user",
		Usage:   "ticketdesk auth whoami [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.cached.Me(ctx)
			if err != nil {
				return cli.FromAPIError("load current user", err)
			}
			if done, err := params.EmitJSON(map[string]any{
				"user":         user,
				"token_source": s.token.Source(),
			}); done {
				return err
			}
			role := "agent"
			if user.IsAdmin {
				role = "admin"
			}
			fmt.Fprintf(cli.Stdout, "%s <%s> (%s, id %d)\n", user.Name, user.Email, role, user.ID)
			fmt.Fprintf(cli.Stdout, "token from %s\n", s.token.Source())
			return nil
		},
	}
}
