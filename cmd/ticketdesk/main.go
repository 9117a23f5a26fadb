// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// ticketdesk is the command-line client of the support ticket API: an
// interactive terminal dashboard ("ticketdesk viewer") plus scriptable
// subcommands for listing, editing, and running AI jobs on tickets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCommand().Execute(ctx, os.Args[1:])
	stop()
	if err == nil {
		return
	}

	// Commands that print their own output don't get a redundant
	// "error:" line.
	if code, ok := cli.AlreadyReported(err); ok {
		os.Exit(code)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		os.Exit(coder.ExitCode())
	}
	os.Exit(1)
}
