// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"list", "", 4},
		{"list", "list", 0},
		{"lsit", "list", 2},
		{"restor", "restore", 1},
		{"purge", "merge", 2},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
	flagSet.StringP("status", "s", "", "")
	flagSet.String("priority", "", "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--statsu", "open"}, "--status"},
		{[]string{"--status", "open", "--prority=high"}, "--priority"},
		{[]string{"-s", "open", "--zzzzzzzzzz"}, ""},
		{[]string{"--", "--statsu"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
