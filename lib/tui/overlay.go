// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Splice draws box over view with its top-left corner at (x, y).
// Escape sequences on either side of the box survive; rows outside
// the view are dropped.
func Splice(view, box string, x, y int) string {
	boxLines := strings.Split(box, "\n")
	viewLines := strings.Split(view, "\n")
	for index, boxLine := range boxLines {
		row := y + index
		if row < 0 || row >= len(viewLines) {
			continue
		}
		line := viewLines[row]
		var spliced strings.Builder
		if x > 0 {
			left := ansi.Truncate(line, x, "")
			spliced.WriteString(left)
			if gap := x - ansi.StringWidth(left); gap > 0 {
				spliced.WriteString(strings.Repeat(" ", gap))
			}
		}
		spliced.WriteString("\x1b[0m")
		spliced.WriteString(boxLine)
		spliced.WriteString("\x1b[0m")
		if end := x + ansi.StringWidth(boxLine); end < ansi.StringWidth(line) {
			spliced.WriteString(ansi.TruncateLeft(line, end, ""))
		}
		viewLines[row] = spliced.String()
	}
	return strings.Join(viewLines, "\n")
}

// Center draws box in the middle of a width by height view.
func Center(view, box string, width, height int) string {
	x := max((width-lipgloss.Width(box))/2, 0)
	y := max((height-lipgloss.Height(box))/2, 0)
	return Splice(view, box, x, y)
}

// ConfirmBox renders a bordered question with its key hint, used for
// destructive actions.
func ConfirmBox(theme Theme, title, question, hint string) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ErrorForeground)
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		"",
		lipgloss.NewStyle().Foreground(theme.NormalText).Render(question),
		"",
		lipgloss.NewStyle().Foreground(theme.HelpText).Render(hint),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ErrorForeground).
		Padding(0, 2).
		Render(body)
}
