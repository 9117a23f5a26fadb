// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
	"github.com/ticketdesk/ticketdesk/lib/clock"
	"github.com/ticketdesk/ticketdesk/lib/config"
	"github.com/ticketdesk/ticketdesk/lib/credential"
	"github.com/ticketdesk/ticketdesk/lib/querycache"
	"github.com/ticketdesk/ticketdesk/lib/ticketapi"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
)

// Connection holds the flags shared by every command that talks to
// the API. Embed it in a params struct.
type Connection struct {
	ConfigPath string `json:"-" flag:"config,c" desc:"config file (default: $TICKETDESK_CONFIG)"`
	APIURL     string `json:"-" flag:"api-url" desc:"API root, overriding api.base_url"`
}

// session is an open connection: the resolved configuration, the
// token, and a cached API client.
type session struct {
	config   *config.Config
	token    *credential.Token
	client   *ticketapi.Client
	cached   *ticketapi.Cached
	location *time.Location
	renderer ticketevent.Renderer
}

// loadConfig resolves, overrides, and validates the configuration,
// then applies its log level.
func (connection *Connection) loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(connection.ConfigPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if connection.APIURL != "" {
		cfg.API.BaseURL = connection.APIURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("%w", err)
	}
	if level, err := cfg.LogLevel(); err == nil {
		logLevel.Set(level)
	}
	return cfg, nil
}

// connect opens a session. The caller must Close it.
func (connection *Connection) connect(logger *slog.Logger) (*session, error) {
	cfg, err := connection.loadConfig()
	if err != nil {
		return nil, err
	}

	token, err := credential.Resolve(credential.Options{
		Token:        cfg.Auth.Token,
		TokenFile:    cfg.Auth.TokenFile,
		IdentityFile: cfg.Auth.IdentityFile,
	})
	if err != nil {
		return nil, cli.Validation("%w", err).
			WithHint("Check auth.token_file and auth.identity_file in the config file.")
	}

	// Validate has already checked both.
	timeout, _ := cfg.Timeout()
	location, _ := cfg.Location()

	client, err := ticketapi.NewClient(ticketapi.Config{
		BaseURL:    cfg.API.BaseURL,
		Token:      token.Value(),
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	})
	if err != nil {
		token.Close()
		return nil, cli.Validation("%w", err)
	}
	cache := querycache.New(querycache.Config{Clock: clock.Real(), Logger: logger})

	logger.Debug("session opened",
		"environment", cfg.Environment,
		"base_url", client.BaseURL(),
		"token", token,
	)
	return &session{
		config:   cfg,
		token:    token,
		client:   client,
		cached:   ticketapi.NewCached(client, cache),
		location: location,
		renderer: ticketevent.Renderer{Location: location},
	}, nil
}

// Close releases the token.
func (s *session) Close() {
	s.token.Close()
}

// parseTicketID reads the single positional ticket ID of a command.
// A leading "#" is accepted.
func parseTicketID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, cli.Validation("expected a ticket ID, got %d arguments", len(args)).
			WithHint("Usage: " + usage)
	}
	text := args[0]
	if len(text) > 1 && text[0] == '#' {
		text = text[1:]
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Validation("invalid ticket ID %q", args[0]).WithHint("Usage: " + usage)
	}
	return id, nil
}
