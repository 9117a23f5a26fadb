// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"sync"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is a match score and the matched rune positions of the
// text, ascending. A zero Score means no match.
type FuzzyResult struct {
	Score     int
	Positions []int
}

var fuzzyInit sync.Once

// NewSlab allocates scratch space for FuzzyMatch. A slab is not safe
// for concurrent use; reuse one per filtering pass.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch runs fzf's V2 algorithm over text, case-insensitively,
// with unicode normalization so "acao" matches "ação". slab may be nil.
// An empty pattern matches nothing.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	fuzzyInit.Do(func() { algo.Init("default") })

	// Lowercasing per rune keeps positions aligned with the original
	// text's runes.
	lowered := []rune(text)
	for index, character := range lowered {
		lowered[index] = unicode.ToLower(character)
	}
	loweredPattern := algo.NormalizeRunes([]rune(strings.ToLower(string(pattern))))

	chars := util.RunesToChars(lowered)
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, loweredPattern, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = append([]int(nil), *positions...)
		// fzf reports positions from the end backwards.
		for left, right := 0, len(matched.Positions)-1; left < right; left, right = left+1, right-1 {
			matched.Positions[left], matched.Positions[right] = matched.Positions[right], matched.Positions[left]
		}
	}
	return matched
}
