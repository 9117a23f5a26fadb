// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	record := func(name string) func(context.Context, []string, *slog.Logger) error {
		return func(context.Context, []string, *slog.Logger) error {
			called = name
			return nil
		}
	}

	root := &Command{
		Name: "ticketdesk",
		Subcommands: []*Command{
			{Name: "list", Run: record("list")},
			{Name: "show", Run: record("show")},
		},
	}

	if err := root.Execute(context.Background(), []string{"show"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "show" {
		t.Errorf("dispatched to %q, want %q", called, "show")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "ticketdesk",
		Subcommands: []*Command{
			{
				Name: "ai",
				Subcommands: []*Command{
					{
						Name: "summary",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"ai", "summary", "42"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "42" {
		t.Errorf("args = %v, want [42]", receivedArgs)
	}
}

func TestCommand_Execute_InheritsLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))

	root := &Command{
		Name:   "ticketdesk",
		Logger: logger,
		Subcommands: []*Command{
			{
				Name: "list",
				Run: func(_ context.Context, _ []string, logger *slog.Logger) error {
					logger.Info("listing")
					return nil
				},
			},
		},
	}
	if err := root.Execute(context.Background(), []string{"list"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(buffer.String(), "listing") {
		t.Errorf("subcommand did not use the root logger: %q", buffer.String())
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var status string
	var target string

	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&status, "status", "", "status filter")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--status", "open", "vpn"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if status != "open" || target != "vpn" {
		t.Errorf("status=%q target=%q, want open and vpn", status, target)
	}
}

func TestCommand_Execute_ParamsBindFlags(t *testing.T) {
	var params struct {
		JSONOutput
		Page int `flag:"page,p" desc:"page number" default:"1"`
	}
	var page int
	var outputJSON bool

	command := &Command{
		Name:   "list",
		Params: func() any { return &params },
		Run: func(context.Context, []string, *slog.Logger) error {
			page = params.Page
			outputJSON = params.OutputJSON
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"-p", "3", "--json"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if page != 3 || !outputJSON {
		t.Errorf("page=%d json=%v, want 3 and true", page, outputJSON)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "events",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("events", pflag.ContinueOnError)
			flagSet.Bool("details", false, "show metadata")
			flagSet.Bool("oldest-first", false, "sort ascending")
			return flagSet
		},
		Run: func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--detials"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --details?") {
		t.Errorf("error = %q, want suggestion for --details", err.Error())
	}
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
		t.Errorf("flag errors should be validation errors, got %#v", err)
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "ticketdesk",
		Subcommands: []*Command{
			{Name: "restore", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			{Name: "purge", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"restor"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "restore"?`) {
		t.Errorf("error = %q, want suggestion for restore", err.Error())
	}

	err = root.Execute(context.Background(), []string{"zzzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("distant names should not get a suggestion: %v", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "stats",
		Subcommands: []*Command{{Name: "summary", Run: func(context.Context, []string, *slog.Logger) error { return nil }}},
	}
	if err := root.Execute(context.Background(), nil); err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute(nil) = %v, want subcommand required", err)
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params struct {
		Status string `flag:"status,s" desc:"filter by status"`
	}
	command := &Command{
		Name:        "list",
		Description: "List tickets on the server.",
		Usage:       "ticketdesk list [flags]",
		Params:      func() any { return &params },
		Examples: []Example{
			{Description: "Open tickets", Command: "ticketdesk list --status open"},
		},
		Run: func(context.Context, []string, *slog.Logger) error { return nil },
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()
	for _, want := range []string{
		"List tickets on the server.",
		"Usage:\n  ticketdesk list [flags]",
		"--status",
		"filter by status",
		"# Open tickets",
		"ticketdesk list --status open",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help missing %q:\n%s", want, output)
		}
	}
}
