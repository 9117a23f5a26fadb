// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar draws a one-column scrollbar of height rows for a
// view showing visible of total lines starting at offset. When
// everything fits the thumb fills the track.
func RenderScrollbar(theme Theme, height, total, visible, offset int, focused bool) string {
	if height <= 0 {
		return ""
	}
	thumbColor := theme.BorderColor
	if focused {
		thumbColor = theme.StatusInProgress
	}
	thumb := lipgloss.NewStyle().Foreground(thumbColor).Render("┃")
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")

	start, size := thumbSpan(height, total, visible, offset)
	rows := make([]string, height)
	for row := range rows {
		if row >= start && row < start+size {
			rows[row] = thumb
		} else {
			rows[row] = track
		}
	}
	return strings.Join(rows, "\n")
}

// thumbSpan returns the first row and the length of the thumb.
func thumbSpan(height, total, visible, offset int) (start, size int) {
	if total <= 0 || total <= visible {
		return 0, height
	}
	size = max(height*visible/total, 1)
	scrollable := total - visible
	free := height - size
	if free > 0 {
		start = min(max(offset, 0), scrollable) * free / scrollable
	}
	return start, size
}
