// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ticketdesk/ticketdesk/lib/aistatus"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
	"github.com/ticketdesk/ticketdesk/lib/tui"
)

// Fixed column widths. The title column takes what is left.
const (
	columnWidthID       = 7  // "#12345 "
	columnWidthPriority = 8  // "Média   "
	columnWidthUpdated  = 15 // "há 12 minutos  "
	columnWidthAI       = 2
	leftIndentWidth     = 3 // indent + status glyph + space
)

// ListRenderer draws ticket rows within a fixed width. Relative times
// are computed against now so a whole page renders consistently.
type ListRenderer struct {
	theme    tui.Theme
	width    int
	now      time.Time
	renderer ticketevent.Renderer
}

// NewListRenderer creates a ListRenderer for the given width.
func NewListRenderer(theme tui.Theme, width int, now time.Time, renderer ticketevent.Renderer) ListRenderer {
	return ListRenderer{theme: theme, width: width, now: now, renderer: renderer}
}

// statusGlyph is a one-cell marker for a ticket status.
func statusGlyph(status ticket.Status) string {
	switch status {
	case ticket.StatusOpen:
		return "○"
	case ticket.StatusInProgress:
		return "◐"
	case ticket.StatusWaiting:
		return "◔"
	case ticket.StatusResolved:
		return "●"
	case ticket.StatusClosed:
		return "✓"
	}
	return "·"
}

// RenderRow renders one ticket. matchPositions are rune offsets in
// the title that matched the fuzzy filter.
//
//	○ #42    Alta    VPN caiu no escritório        há 3 horas     ◌
func (renderer ListRenderer) RenderRow(current ticket.Ticket, selected bool, matchPositions []int) string {
	titleWidth := renderer.width - leftIndentWidth - columnWidthID - columnWidthPriority - columnWidthUpdated - columnWidthAI
	if titleWidth < 10 {
		titleWidth = 10
	}

	title := current.Title
	if lipgloss.Width(title) > titleWidth {
		title = ansi.Truncate(title, titleWidth, "…")
	}

	base := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	highlight := lipgloss.NewStyle().Foreground(renderer.theme.MatchForeground).Bold(true)
	if selected {
		base = lipgloss.NewStyle().
			Background(renderer.theme.SelectedBackground).
			Foreground(renderer.theme.SelectedForeground)
		highlight = base.Bold(true).Underline(true)
	}
	faint := base.Foreground(renderer.theme.FaintText)
	if selected {
		faint = base
	}

	statusStyle := base.Foreground(renderer.theme.StatusColor(current.Status))
	priorityStyle := base.Foreground(renderer.theme.PriorityColor(current.Priority)).Bold(current.Priority == ticket.PriorityHigh)
	if selected {
		statusStyle = base.Bold(true)
		priorityStyle = base.Bold(true)
	}

	priority := ticketevent.PriorityLabel(current.Priority)
	if current.Priority == "" {
		priority = "—"
	}

	updated := renderer.renderer.RelativeTimestamp(current.UpdatedAt, renderer.now)
	if current.UpdatedAt == "" {
		updated = renderer.renderer.RelativeTimestamp(current.CreatedAt, renderer.now)
	}

	row := base.Render(" ") +
		statusStyle.Render(statusGlyph(current.Status)) +
		base.Render(" ") +
		faint.Width(columnWidthID).Render("#"+strconv.FormatInt(current.ID, 10)) +
		priorityStyle.Width(columnWidthPriority).Render(priority) +
		base.Width(titleWidth).Render(highlightTitle(title, matchPositions, base, highlight)) +
		faint.Width(columnWidthUpdated).Align(lipgloss.Right).Render(ansi.Truncate(updated, columnWidthUpdated-1, "…")+" ") +
		renderer.renderAIBadge(&current, base, selected)

	return base.Width(renderer.width).MaxWidth(renderer.width).Render(row)
}

// renderAIBadge shows the combined AI state as a one-cell glyph.
func (renderer ListRenderer) renderAIBadge(current *ticket.Ticket, base lipgloss.Style, selected bool) string {
	combined := aistatus.CombineTicket(current)
	glyph := " "
	switch combined {
	case aistatus.CombinedProcessing:
		glyph = aistatus.Indicator(ticket.JobStatusProcessing).Glyph
	case aistatus.CombinedFailed:
		glyph = aistatus.Indicator(ticket.JobStatusFailed).Glyph
	case aistatus.CombinedDone:
		glyph = aistatus.Indicator(ticket.JobStatusDone).Glyph
	}
	style := base.Width(columnWidthAI)
	if !selected && combined != aistatus.CombinedNone {
		style = style.Foreground(lipgloss.Color(combined.Color()))
	}
	return style.Render(glyph)
}

// RenderEmpty renders the placeholder shown when a page has no rows.
func (renderer ListRenderer) RenderEmpty(filtered bool) string {
	text := "Nenhum ticket encontrado."
	if filtered {
		text = "Nenhum ticket corresponde ao filtro."
	}
	return lipgloss.NewStyle().
		Foreground(renderer.theme.FaintText).
		Width(renderer.width).
		Align(lipgloss.Center).
		Render(text)
}

// highlightTitle renders title with the runes at positions in
// highlightStyle. Runs of equal style are rendered together to keep
// the escape sequences short.
func highlightTitle(title string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(title)
	}

	matched := make(map[int]bool, len(positions))
	for _, position := range positions {
		matched[position] = true
	}

	runes := []rune(title)
	var result strings.Builder
	runStart := 0
	highlighted := matched[0]
	for index := 1; index <= len(runes); index++ {
		current := index < len(runes) && matched[index]
		if index == len(runes) || current != highlighted {
			chunk := string(runes[runStart:index])
			if highlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			highlighted = current
		}
	}
	return result.String()
}
