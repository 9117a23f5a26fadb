// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the ticketdesk
// CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a flag source (either a
// [pflag.FlagSet] factory or a tagged params struct), and a Run
// function. Commands are assembled into a tree in cmd/ticketdesk and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and help output with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes the Levenshtein distance against all known names and
// suggests the closest match (distance <= 3).
//
// Errors returned by commands are categorized with [ToolError] so
// scripts can tell bad input from a missing ticket or a server
// failure; [FromAPIError] maps API responses onto those categories.
package cli
