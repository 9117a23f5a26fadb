// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds terminal UI pieces shared by ticketdesk's
// interactive views: the color theme, the scrollbar, fuzzy matching
// on top of fzf's algorithm, and ANSI-aware overlay splicing for
// confirmation boxes.
//
// Views own their layout and data. This package has no bubbletea
// state of its own.
package tui
