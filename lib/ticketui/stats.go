// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
	"github.com/ticketdesk/ticketdesk/lib/tui"
)

// statsData is one load of the statistics tab. Each part fails
// independently.
type statsData struct {
	summary     *ticket.Summary
	summaryErr  error
	backlog     *ticket.Backlog
	backlogErr  error
	activity    []ticket.ActivityEntry
	activityErr error
}

// StatsPane shows the summary, backlog, and activity feed in a
// scrolling viewport.
type StatsPane struct {
	viewport viewport.Model
	theme    tui.Theme
	renderer ticketevent.Renderer
	width    int
	height   int

	data    *statsData
	loading bool
	now     time.Time
}

// NewStatsPane creates an empty statistics pane.
func NewStatsPane(theme tui.Theme, renderer ticketevent.Renderer) StatsPane {
	return StatsPane{theme: theme, renderer: renderer}
}

// SetSize updates the pane dimensions.
func (pane *StatsPane) SetSize(width, height int) {
	pane.width = width
	pane.height = height
	pane.viewport.Width = max(width-2, 10)
	pane.viewport.Height = max(height, 1)
	pane.rerender()
}

// SetLoading marks a refresh in flight.
func (pane *StatsPane) SetLoading() {
	pane.loading = true
	pane.rerender()
}

// SetData shows a completed load.
func (pane *StatsPane) SetData(data *statsData, now time.Time) {
	pane.data = data
	pane.loading = false
	pane.now = now
	pane.rerender()
}

// Loaded reports whether any data has arrived.
func (pane StatsPane) Loaded() bool { return pane.data != nil }

func (pane *StatsPane) rerender() {
	pane.viewport.SetContent(renderStats(pane.theme, pane.renderer, max(pane.width-2, 10), pane.now, pane.data, pane.loading))
}

// ScrollUp scrolls up by half a page.
func (pane *StatsPane) ScrollUp() { pane.viewport.HalfViewUp() }

// ScrollDown scrolls down by half a page.
func (pane *StatsPane) ScrollDown() { pane.viewport.HalfViewDown() }

// View renders the viewport with a scrollbar.
func (pane StatsPane) View(focused bool) string {
	content := lipgloss.NewStyle().PaddingLeft(1).Width(pane.width - 1).Height(pane.height).Render(pane.viewport.View())
	scrollbar := tui.RenderScrollbar(pane.theme, pane.height, pane.viewport.TotalLineCount(), pane.viewport.Height, pane.viewport.YOffset, focused)
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

// renderStats lays out the three statistics sections.
func renderStats(theme tui.Theme, renderer ticketevent.Renderer, width int, now time.Time, data *statsData, loading bool) string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	errorStyle := lipgloss.NewStyle().Foreground(theme.ErrorForeground)

	if data == nil {
		if loading {
			return faint.Render("Carregando estatísticas…")
		}
		return ""
	}

	var sections []string

	summary := []string{title.Render("Resumo")}
	switch {
	case data.summaryErr != nil:
		summary = append(summary, errorStyle.Render(data.summaryErr.Error()))
	case data.summary != nil:
		summary = append(summary, renderSummary(theme, data.summary)...)
	}
	sections = append(sections, strings.Join(summary, "\n"))

	backlog := []string{title.Render("Backlog")}
	switch {
	case data.backlogErr != nil:
		backlog = append(backlog, errorStyle.Render(data.backlogErr.Error()))
	case data.backlog != nil:
		counts := data.backlog.Counts
		backlog = append(backlog,
			statLine(theme, "Abertos há mais de 2 dias", counts.OlderThan2Days),
			statLine(theme, "Abertos há mais de 7 dias", counts.OlderThan7Days),
			statLine(theme, "Abertos há mais de 14 dias", counts.OlderThan14Days),
		)
		if len(data.backlog.OldestOpen) > 0 {
			backlog = append(backlog, "", faint.Render("Mais antigos em aberto"))
			for _, oldest := range data.backlog.OldestOpen {
				age := renderer.RelativeTimestamp(oldest.CreatedAt, now)
				line := "#" + strconv.FormatInt(oldest.ID, 10) + " " + oldest.Title
				backlog = append(backlog, ansi.Truncate(line, max(width-lipgloss.Width(age)-2, 10), "…")+"  "+faint.Render(age))
			}
		}
	}
	sections = append(sections, strings.Join(backlog, "\n"))

	activity := []string{title.Render("Atividade recente")}
	switch {
	case data.activityErr != nil:
		activity = append(activity, errorStyle.Render(data.activityErr.Error()))
	case len(data.activity) == 0:
		activity = append(activity, faint.Render("Nenhuma atividade registrada."))
	default:
		for _, entry := range data.activity {
			formatted := ticketevent.FormatActivity(entry)
			glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(formatted.Category.Color())).Render(formatted.Category.Glyph())
			when := renderer.RelativeTimestamp(entry.Timestamp, now)
			text := formatted.Label + " · #" + strconv.FormatInt(entry.TicketID, 10) + " " + entry.TicketTitle
			activity = append(activity, glyph+" "+ansi.Truncate(text, max(width-lipgloss.Width(when)-4, 10), "…")+"  "+faint.Render(when))
		}
	}
	sections = append(sections, strings.Join(activity, "\n"))

	if loading {
		sections = append(sections, faint.Render("Atualizando…"))
	}
	return strings.Join(sections, "\n\n")
}

func renderSummary(theme tui.Theme, summary *ticket.Summary) []string {
	lines := []string{statLine(theme, "Ativos", summary.TotalActive)}
	for _, status := range ticket.Statuses {
		label := lipgloss.NewStyle().Foreground(theme.StatusColor(status)).Render(ticketevent.StatusLabel(status))
		lines = append(lines, "  "+padLabel(label, 24)+humanize.Comma(int64(summary.ByStatus[status])))
	}
	for _, priority := range ticket.Priorities {
		label := lipgloss.NewStyle().Foreground(theme.PriorityColor(priority)).Render(ticketevent.PriorityLabel(priority))
		lines = append(lines, "  "+padLabel(label, 24)+humanize.Comma(int64(summary.ByPriority[priority])))
	}
	lines = append(lines,
		statLine(theme, "Fechados hoje", summary.Closed.Today),
		statLine(theme, "Fechados em 7 dias", summary.Closed.Last7Days),
		statLine(theme, "Fechados em 30 dias", summary.Closed.Last30Days),
		"  "+padLabel(lipgloss.NewStyle().Foreground(theme.NormalText).Render("Tempo médio até fechar"), 24)+
			ticketevent.TimeToClose(summary.AverageTimeToCloseHours),
	)
	return lines
}

func statLine(theme tui.Theme, label string, value int) string {
	return "  " + padLabel(lipgloss.NewStyle().Foreground(theme.NormalText).Render(label), 24) + humanize.Comma(int64(value))
}

// padLabel pads a styled label to width cells.
func padLabel(label string, width int) string {
	if gap := width - lipgloss.Width(label); gap > 0 {
		return label + strings.Repeat(" ", gap)
	}
	return label + " "
}
