// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
	"github.com/ticketdesk/ticketdesk/lib/tui"
)

// FilterModel narrows the loaded page client-side with fuzzy
// matching. It composes with the server filters: the server chooses
// the page, the filter hides rows of it.
type FilterModel struct {
	Input  string
	Active bool
}

// FilterResult is one row that survived the filter. TitlePositions
// are the matched rune offsets in the title, for highlighting.
type FilterResult struct {
	Ticket         ticket.Ticket
	Score          int
	TitlePositions []int
}

// ApplyFuzzy matches every ticket against the input. The title, the
// "#id" reference, the description and the status and priority labels
// are candidates; the best score wins. Results are ordered by score,
// keeping server order among equals. An empty input keeps every
// ticket in server order with zero scores.
func (filter *FilterModel) ApplyFuzzy(tickets []ticket.Ticket) []FilterResult {
	results := make([]FilterResult, 0, len(tickets))
	if filter.Input == "" {
		for _, current := range tickets {
			results = append(results, FilterResult{Ticket: current})
		}
		return results
	}

	pattern := []rune(filter.Input)
	slab := tui.NewSlab()
	for _, current := range tickets {
		title := tui.FuzzyMatch(current.Title, pattern, slab)
		best := title.Score
		for _, field := range []string{
			"#" + strconv.FormatInt(current.ID, 10),
			current.Description,
			ticketevent.StatusLabel(current.Status),
			ticketevent.PriorityLabel(current.Priority),
		} {
			best = max(best, tui.FuzzyMatch(field, pattern, slab).Score)
		}
		if best <= 0 {
			continue
		}
		results = append(results, FilterResult{
			Ticket:         current,
			Score:          best,
			TitlePositions: title.Positions,
		})
	}
	slices.SortStableFunc(results, func(a, b FilterResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results
}

// HandleRune appends a typed character.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character. Returns false when the
// input was already empty.
func (filter *FilterModel) HandleBackspace() bool {
	runes := []rune(filter.Input)
	if len(runes) == 0 {
		return false
	}
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear empties and deactivates the filter.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar, or "" when the filter is idle and
// empty.
func (filter *FilterModel) View(theme tui.Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}
	if filter.Active {
		cursor := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render("▎")
		return lipgloss.NewStyle().Foreground(theme.NormalText).Width(width).Render(" / " + filter.Input + cursor)
	}
	return lipgloss.NewStyle().Foreground(theme.FaintText).Width(width).Render(" filtro: " + filter.Input)
}
