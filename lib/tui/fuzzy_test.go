// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"testing"
)

func TestFuzzyMatchSubstring(t *testing.T) {
	result := FuzzyMatch("Impressora não imprime", []rune("imprime"), nil)
	if result.Score <= 0 {
		t.Fatal("expected a positive score for a substring match")
	}
	if len(result.Positions) != len("imprime") {
		t.Errorf("Positions = %v, want %d entries", result.Positions, len("imprime"))
	}
	if !slices.IsSorted(result.Positions) {
		t.Errorf("Positions not ascending: %v", result.Positions)
	}
}

func TestFuzzyMatchNonContiguous(t *testing.T) {
	if FuzzyMatch("VPN caiu no escritório", []rune("vce"), nil).Score <= 0 {
		t.Error("expected a non-contiguous match")
	}
}

func TestFuzzyMatchCaseAndAccents(t *testing.T) {
	if FuzzyMatch("CONEXÃO LENTA", []rune("conexao"), NewSlab()).Score <= 0 {
		t.Error("expected a case- and accent-insensitive match")
	}
}

func TestFuzzyMatchPositionsIndexRunes(t *testing.T) {
	result := FuzzyMatch("ação", []rune("o"), nil)
	if !slices.Equal(result.Positions, []int{3}) {
		t.Errorf("Positions = %v, want [3]", result.Positions)
	}
}

func TestFuzzyMatchMisses(t *testing.T) {
	for _, pattern := range []string{"xyz", ""} {
		result := FuzzyMatch("VPN caiu", []rune(pattern), nil)
		if result.Score != 0 || len(result.Positions) != 0 {
			t.Errorf("FuzzyMatch(%q) = %+v, want no match", pattern, result)
		}
	}
}
