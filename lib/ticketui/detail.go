// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/ticketdesk/ticketdesk/lib/aistatus"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
	"github.com/ticketdesk/ticketdesk/lib/timeline"
	"github.com/ticketdesk/ticketdesk/lib/tui"
)

// detailHeaderLines is the fixed height of the detail header so the
// body never shifts when switching tickets.
//
//	Line 1:  Aberto   Alta  #42                       na lixeira
//	Line 2: criado por Ana há 3 dias · atualizado há 2 horas
//	Line 3: title
//	Line 4: separator
const detailHeaderLines = 4

// Section titles of the detail body.
const (
	sectionDescription = "Descrição"
	sectionAI          = "Inteligência artificial"
	sectionTimeline    = "Atividades"
	readOnlyHint       = "somente leitura"
	loadingTimeline    = "Carregando atividades…"
)

// jobLabels name the AI jobs in the detail pane.
var jobLabels = map[ticket.Job]string{
	ticket.JobSummary:  "Resumo",
	ticket.JobReply:    "Resposta sugerida",
	ticket.JobPriority: "Prioridade",
}

// DetailRenderer builds the header and body of the detail pane.
type DetailRenderer struct {
	theme    tui.Theme
	width    int
	now      time.Time
	renderer ticketevent.Renderer
}

// NewDetailRenderer creates a DetailRenderer for the given width.
func NewDetailRenderer(theme tui.Theme, width int, now time.Time, renderer ticketevent.Renderer) DetailRenderer {
	return DetailRenderer{theme: theme, width: width, now: now, renderer: renderer}
}

// RenderHeader produces exactly detailHeaderLines lines for a ticket.
func (renderer DetailRenderer) RenderHeader(current *ticket.Ticket, viewer *ticket.User) string {
	statusColor := renderer.theme.StatusColor(current.Status)
	badge := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(statusColor).
		Padding(0, 1).
		Render(ticketevent.StatusLabel(current.Status))
	priority := lipgloss.NewStyle().
		Foreground(renderer.theme.PriorityColor(current.Priority)).
		Bold(current.Priority == ticket.PriorityHigh).
		Render(ticketevent.PriorityLabel(current.Priority))
	id := lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render("#" + strconv.FormatInt(current.ID, 10))
	line1 := badge + "  " + priority + "  " + id

	var flags []string
	if current.Trashed() {
		flags = append(flags, "na lixeira")
	}
	if !current.EditableBy(viewer) {
		flags = append(flags, readOnlyHint)
	}
	if len(flags) > 0 {
		right := lipgloss.NewStyle().Foreground(renderer.theme.ErrorForeground).Render(strings.Join(flags, " · "))
		if gap := renderer.width - lipgloss.Width(line1) - lipgloss.Width(right); gap >= 2 {
			line1 += strings.Repeat(" ", gap) + right
		}
	}

	line2 := lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render(
		ansi.Truncate(renderer.provenance(current), renderer.width, "…"))

	title := current.Title
	if lipgloss.Width(title) > renderer.width {
		title = ansi.Truncate(title, renderer.width, "…")
	}
	line3 := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.HeaderForeground).Render(title)

	separator := lipgloss.NewStyle().Foreground(renderer.theme.BorderColor).Render(strings.Repeat("─", max(renderer.width, 1)))
	return strings.Join([]string{line1, line2, line3, separator}, "\n")
}

// provenance describes who created, updated, and closed the ticket.
func (renderer DetailRenderer) provenance(current *ticket.Ticket) string {
	parts := []string{"criado " + renderer.byWhom(current.CreatedByUser) + renderer.renderer.RelativeTimestamp(current.CreatedAt, renderer.now)}
	if current.UpdatedAt != "" && current.UpdatedAt != current.CreatedAt {
		parts = append(parts, "atualizado "+renderer.byWhom(current.UpdatedByUser)+renderer.renderer.RelativeTimestamp(current.UpdatedAt, renderer.now))
	}
	if current.ClosedAt != "" {
		parts = append(parts, "fechado "+renderer.byWhom(current.ClosedByUser)+renderer.renderer.RelativeTimestamp(current.ClosedAt, renderer.now))
	}
	return strings.Join(parts, " · ")
}

func (renderer DetailRenderer) byWhom(user *ticket.UserRef) string {
	if name := user.DisplayName(); name != "" {
		return "por " + name + " "
	}
	return ""
}

// RenderBody produces the scrollable body: description, AI results,
// and the activity timeline. cursorLine is the body line of the
// selected event, or -1 when the timeline has no entries.
func (renderer DetailRenderer) RenderBody(current *ticket.Ticket, controller *timeline.Controller, cursor int, expanded map[int64]bool) (body string, cursorLine int) {
	var sections []string

	description := renderMarkdown(current.Description, renderer.theme, renderer.width)
	if description == "" {
		description = lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Italic(true).Render("Sem descrição.")
	}
	sections = append(sections, renderer.sectionTitle(sectionDescription)+"\n"+description)
	sections = append(sections, renderer.renderAI(current))

	prefix := strings.Join(sections, "\n\n") + "\n\n"
	timelineView, cursorOffset := renderer.renderTimeline(controller, cursor, expanded)
	cursorLine = -1
	if cursorOffset >= 0 {
		cursorLine = strings.Count(prefix, "\n") + cursorOffset
	}
	return prefix + timelineView, cursorLine
}

func (renderer DetailRenderer) sectionTitle(title string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.NormalText).Render(title)
}

// renderAI lists each job's status, the last error, and the generated
// summary and reply.
func (renderer DetailRenderer) renderAI(current *ticket.Ticket) string {
	accent := lipgloss.NewStyle().Foreground(renderer.theme.AIAccent)
	title := renderer.sectionTitle(sectionAI)
	if combined := aistatus.CombineTicket(current); combined != aistatus.CombinedNone {
		title += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color(combined.Color())).Render(combined.Label())
	}

	lines := []string{title}
	for _, job := range ticket.Jobs {
		indicator := aistatus.Indicator(current.JobStatus(job))
		glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(indicator.Color)).Render(indicator.Glyph)
		label := lipgloss.NewStyle().Width(20).Foreground(renderer.theme.NormalText).Render(jobLabels[job])
		lines = append(lines, " "+glyph+" "+label+lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render(indicator.Label))
	}
	if current.AILastError != "" {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(renderer.theme.ErrorForeground).
			Width(renderer.width).
			Render("Último erro: "+current.AILastError))
	}
	if current.AISummary != "" {
		lines = append(lines, "", accent.Bold(true).Render(jobLabels[ticket.JobSummary]),
			renderMarkdown(current.AISummary, renderer.theme, renderer.width))
	}
	if current.AISuggestedReply != "" {
		lines = append(lines, "", accent.Bold(true).Render(jobLabels[ticket.JobReply]),
			renderMarkdown(current.AISuggestedReply, renderer.theme, renderer.width))
	}
	return strings.Join(lines, "\n")
}

// renderTimeline renders the controller's current state. Returns the
// rendered text and the line offset of the entry at cursor.
func (renderer DetailRenderer) renderTimeline(controller *timeline.Controller, cursor int, expanded map[int64]bool) (string, int) {
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	header := renderer.sectionTitle(sectionTimeline)
	if controller == nil {
		return header, -1
	}
	if controller.State() == timeline.StateLoaded {
		header += faint.Render("  " + strconv.Itoa(controller.Total()) + " · " + controller.SortLabel())
	}

	switch controller.State() {
	case timeline.StateDisabled:
		return header, -1
	case timeline.StateLoading:
		return header + "\n" + faint.Render(loadingTimeline), -1
	case timeline.StateError:
		errorStyle := lipgloss.NewStyle().Foreground(renderer.theme.ErrorForeground)
		lines := []string{header, errorStyle.Bold(true).Render(timeline.ErrorTitle)}
		if err := controller.Err(); err != nil {
			lines = append(lines, errorStyle.Width(renderer.width).Render(err.Error()))
		}
		lines = append(lines, faint.Render("r: "+timeline.RetryLabel))
		return strings.Join(lines, "\n"), -1
	case timeline.StateEmpty:
		return header + "\n" + faint.Render(timeline.EmptyTitle) + "\n" + faint.Italic(true).Render(timeline.EmptyHint), -1
	}

	lines := []string{header}
	cursorOffset := -1
	for index, entry := range controller.Entries() {
		if index == cursor {
			cursorOffset = len(lines)
		}
		lines = append(lines, renderer.renderEntry(entry, index == cursor, expanded[entry.Event.ID])...)
	}
	if controller.ShowPagination() {
		lines = append(lines, "", faint.Render(controller.PageLabel()+"   [ anterior · ] próxima"))
	}
	return strings.Join(lines, "\n"), cursorOffset
}

// renderEntry renders one event: a connector rail, the category glyph
// in the category color, the label, author and timestamp, then the
// details line and the metadata toggle or table.
func (renderer DetailRenderer) renderEntry(entry timeline.Entry, selected, expanded bool) []string {
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	rail := faint.Render("│")
	if entry.IsLast {
		rail = " "
	}

	marker := "  "
	if selected {
		marker = lipgloss.NewStyle().Foreground(renderer.theme.HeaderForeground).Bold(true).Render("▸ ")
	}
	glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Formatted.Category.Color())).Render(entry.Formatted.Category.Glyph())
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.NormalText)
	if entry.Formatted.IsAI {
		labelStyle = labelStyle.Foreground(renderer.theme.AIAccent)
	}
	lines := []string{marker + glyph + " " + labelStyle.Render(entry.Formatted.Label) +
		faint.Render(" · "+entry.Author+" · "+entry.Timestamp)}

	indent := "  " + rail + " "
	innerWidth := max(renderer.width-lipgloss.Width(indent), 10)
	if entry.Formatted.Details != "" {
		details := lipgloss.NewStyle().Foreground(renderer.theme.NormalText).Width(innerWidth).Render(entry.Formatted.Details)
		lines = append(lines, prefixLines(details, indent, indent))
	}
	if entry.Meta != nil {
		if expanded {
			lines = append(lines, prefixLines(renderer.renderMetaBlock(entry.Meta, innerWidth), indent, indent))
		} else {
			lines = append(lines, indent+faint.Render("x: "+ticketevent.ToggleLabel))
		}
	}
	if !entry.IsLast {
		lines = append(lines, indent)
	}
	return lines
}

// renderMetaBlock draws the changed-fields table and the extras list.
func (renderer DetailRenderer) renderMetaBlock(block *ticketevent.MetaBlock, width int) string {
	var parts []string
	if len(block.Changes) > 0 {
		rows := make([][]string, len(block.Changes))
		for index, change := range block.Changes {
			rows[index] = []string{change.Label, change.Before, change.After}
		}
		header := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.NormalText).Padding(0, 1)
		cell := lipgloss.NewStyle().Foreground(renderer.theme.NormalText).Padding(0, 1)
		changes := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(renderer.theme.BorderColor)).
			Headers(ticketevent.HeaderField, ticketevent.HeaderBefore, ticketevent.HeaderAfter).
			Rows(rows...).
			StyleFunc(func(row, column int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				if column == 0 {
					return cell.Foreground(renderer.theme.FaintText)
				}
				return cell
			})
		rendered := changes.String()
		if lipgloss.Width(rendered) > width {
			rendered = changes.Width(width).String()
		}
		parts = append(parts, rendered)
	}
	for _, extra := range block.Extras {
		label := lipgloss.NewStyle().Foreground(renderer.theme.FaintText).Render(extra.Label + ": ")
		parts = append(parts, ansi.Wrap(label+extra.Value, width, ""))
	}
	return strings.Join(parts, "\n")
}

// DetailPane shows one ticket: a fixed header above a scrollable
// viewport holding the body. The timeline controller is shared with
// the model, which drives its fetches.
type DetailPane struct {
	viewport viewport.Model
	theme    tui.Theme
	renderer ticketevent.Renderer
	width    int
	height   int

	ticket   *ticket.Ticket
	viewer   *ticket.User
	timeline *timeline.Controller
	now      time.Time

	// eventCursor indexes the selected timeline entry in display
	// order. expanded holds the event IDs whose metadata is open.
	eventCursor int
	expanded    map[int64]bool

	header string
}

// NewDetailPane creates an empty detail pane.
func NewDetailPane(theme tui.Theme, renderer ticketevent.Renderer) DetailPane {
	return DetailPane{theme: theme, renderer: renderer, expanded: make(map[int64]bool)}
}

func (pane DetailPane) bodyHeight() int {
	return max(pane.height-detailHeaderLines, 1)
}

// contentWidth leaves a padding column on the left and the scrollbar
// on the right.
func (pane DetailPane) contentWidth() int {
	return max(pane.width-2, 10)
}

// SetSize updates the pane dimensions and re-renders at the new width.
func (pane *DetailPane) SetSize(width, height int) {
	previousWidth := pane.width
	pane.width = width
	pane.height = height
	pane.viewport.Width = pane.contentWidth()
	pane.viewport.Height = pane.bodyHeight()
	if pane.ticket != nil && width != previousWidth {
		pane.rerender(false)
	}
}

// SetTicket shows current. Switching to a different ticket resets the
// scroll position, event cursor, and expanded metadata.
func (pane *DetailPane) SetTicket(current *ticket.Ticket, viewer *ticket.User, controller *timeline.Controller, now time.Time) {
	switched := pane.ticket == nil || current == nil || pane.ticket.ID != current.ID
	pane.ticket = current
	pane.viewer = viewer
	pane.timeline = controller
	pane.now = now
	if current == nil {
		pane.Clear()
		return
	}
	if switched {
		pane.eventCursor = 0
		clear(pane.expanded)
	}
	pane.rerender(switched)
}

// Refresh re-renders after the timeline or viewer changed, keeping the
// scroll position.
func (pane *DetailPane) Refresh(now time.Time) {
	if pane.ticket == nil {
		return
	}
	pane.now = now
	pane.clampCursor()
	pane.rerender(false)
}

// Clear removes the displayed ticket.
func (pane *DetailPane) Clear() {
	pane.ticket = nil
	pane.timeline = nil
	pane.header = ""
	pane.eventCursor = 0
	clear(pane.expanded)
	pane.viewport.SetContent("")
}

// Ticket returns the displayed ticket, or nil.
func (pane DetailPane) Ticket() *ticket.Ticket { return pane.ticket }

// EventCursor returns the index of the selected timeline entry.
func (pane DetailPane) EventCursor() int { return pane.eventCursor }

// Expanded reports whether the metadata of eventID is shown.
func (pane DetailPane) Expanded(eventID int64) bool { return pane.expanded[eventID] }

// MoveEvent moves the event cursor by delta within the loaded page and
// scrolls it into view.
func (pane *DetailPane) MoveEvent(delta int) {
	if pane.ticket == nil || pane.timeline == nil {
		return
	}
	pane.eventCursor += delta
	pane.clampCursor()
	pane.rerender(false)
	pane.scrollToCursor()
}

// ResetEventCursor selects the first entry of a newly loaded page.
func (pane *DetailPane) ResetEventCursor() {
	pane.eventCursor = 0
	clear(pane.expanded)
}

// ToggleDetails opens or closes the metadata of the selected event.
// Returns false when that event has nothing to disclose.
func (pane *DetailPane) ToggleDetails() bool {
	if pane.timeline == nil {
		return false
	}
	entries := pane.timeline.Entries()
	if pane.eventCursor < 0 || pane.eventCursor >= len(entries) || entries[pane.eventCursor].Meta == nil {
		return false
	}
	eventID := entries[pane.eventCursor].Event.ID
	if pane.expanded[eventID] {
		delete(pane.expanded, eventID)
	} else {
		pane.expanded[eventID] = true
	}
	pane.rerender(false)
	return true
}

func (pane *DetailPane) clampCursor() {
	count := 0
	if pane.timeline != nil {
		count = len(pane.timeline.Entries())
	}
	pane.eventCursor = min(max(pane.eventCursor, 0), max(count-1, 0))
}

func (pane *DetailPane) rerender(top bool) {
	previousOffset := pane.viewport.YOffset
	renderer := NewDetailRenderer(pane.theme, pane.contentWidth(), pane.now, pane.renderer)
	pane.header = renderer.RenderHeader(pane.ticket, pane.viewer)
	body, _ := renderer.RenderBody(pane.ticket, pane.timeline, pane.eventCursor, pane.expanded)
	pane.viewport.SetContent(lipgloss.NewStyle().Width(pane.contentWidth()).Render(body))
	if top {
		pane.viewport.GotoTop()
		return
	}
	maxOffset := max(pane.viewport.TotalLineCount()-pane.viewport.Height, 0)
	pane.viewport.SetYOffset(min(previousOffset, maxOffset))
}

// scrollToCursor keeps the selected entry visible.
func (pane *DetailPane) scrollToCursor() {
	renderer := NewDetailRenderer(pane.theme, pane.contentWidth(), pane.now, pane.renderer)
	_, line := renderer.RenderBody(pane.ticket, pane.timeline, pane.eventCursor, pane.expanded)
	if line < 0 {
		return
	}
	switch {
	case line < pane.viewport.YOffset:
		pane.viewport.SetYOffset(line)
	case line >= pane.viewport.YOffset+pane.viewport.Height:
		pane.viewport.SetYOffset(line - pane.viewport.Height + 3)
	}
}

// ScrollUp scrolls up by half a page.
func (pane *DetailPane) ScrollUp() { pane.viewport.HalfViewUp() }

// ScrollDown scrolls down by half a page.
func (pane *DetailPane) ScrollDown() { pane.viewport.HalfViewDown() }

// View renders the header, the scrolling body, and a scrollbar
// covering the body rows.
func (pane DetailPane) View(focused bool) string {
	padding := lipgloss.NewStyle().PaddingLeft(1).Width(pane.width - 1)
	if pane.ticket == nil {
		content := padding.Height(pane.height).Render(lipgloss.Place(
			pane.contentWidth(), pane.height,
			lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(pane.theme.FaintText).Render("Selecione um ticket para ver os detalhes"),
		))
		return lipgloss.JoinHorizontal(lipgloss.Top, content, tui.RenderScrollbar(pane.theme, pane.height, 0, pane.height, 0, focused))
	}

	bodyHeight := pane.bodyHeight()
	content := padding.Height(detailHeaderLines).Render(pane.header) + "\n" +
		padding.Height(bodyHeight).Render(pane.viewport.View())
	scroll := lipgloss.NewStyle().Width(1).Height(detailHeaderLines).Render("") + "\n" +
		tui.RenderScrollbar(pane.theme, bodyHeight, pane.viewport.TotalLineCount(), pane.viewport.Height, pane.viewport.YOffset, focused)
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scroll)
}
