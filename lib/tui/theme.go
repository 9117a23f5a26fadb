// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// Theme is the color palette of the terminal views. Colors are ANSI
// 256 codes, except where a caller passes a hex color from the event
// formatter through unchanged.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	StatusOpen       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusWaiting    lipgloss.Color
	StatusResolved   lipgloss.Color
	StatusClosed     lipgloss.Color

	PriorityHigh   lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityLow    lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Status bar notices.
	ErrorForeground  lipgloss.Color
	NoticeForeground lipgloss.Color

	// Characters matched by the fuzzy filter.
	MatchForeground lipgloss.Color

	// AI sections and indicators.
	AIAccent lipgloss.Color
}

// StatusColor returns the color of a ticket status, FaintText for
// unknown codes.
func (theme Theme) StatusColor(status ticket.Status) lipgloss.Color {
	switch status {
	case ticket.StatusOpen:
		return theme.StatusOpen
	case ticket.StatusInProgress:
		return theme.StatusInProgress
	case ticket.StatusWaiting:
		return theme.StatusWaiting
	case ticket.StatusResolved:
		return theme.StatusResolved
	case ticket.StatusClosed:
		return theme.StatusClosed
	}
	return theme.FaintText
}

// PriorityColor returns the color of a priority. Unprioritized
// tickets use FaintText.
func (theme Theme) PriorityColor(priority ticket.Priority) lipgloss.Color {
	switch priority {
	case ticket.PriorityHigh:
		return theme.PriorityHigh
	case ticket.PriorityMedium:
		return theme.PriorityMedium
	case ticket.PriorityLow:
		return theme.PriorityLow
	}
	return theme.FaintText
}

// DefaultTheme targets 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusOpen:       lipgloss.Color("75"),  // blue
	StatusInProgress: lipgloss.Color("220"), // amber
	StatusWaiting:    lipgloss.Color("141"), // purple
	StatusResolved:   lipgloss.Color("114"), // green
	StatusClosed:     lipgloss.Color("245"), // gray

	PriorityHigh:   lipgloss.Color("196"),
	PriorityMedium: lipgloss.Color("208"),
	PriorityLow:    lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ErrorForeground:  lipgloss.Color("203"),
	NoticeForeground: lipgloss.Color("114"),

	MatchForeground: lipgloss.Color("220"),

	AIAccent: lipgloss.Color("141"),
}

// LightTheme is DefaultTheme adjusted for light backgrounds.
var LightTheme = Theme{
	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("242"),

	SelectedBackground: lipgloss.Color("254"),
	SelectedForeground: lipgloss.Color("232"),

	StatusOpen:       lipgloss.Color("26"),
	StatusInProgress: lipgloss.Color("130"),
	StatusWaiting:    lipgloss.Color("91"),
	StatusResolved:   lipgloss.Color("28"),
	StatusClosed:     lipgloss.Color("244"),

	PriorityHigh:   lipgloss.Color("160"),
	PriorityMedium: lipgloss.Color("166"),
	PriorityLow:    lipgloss.Color("244"),

	HeaderForeground: lipgloss.Color("232"),
	BorderColor:      lipgloss.Color("250"),
	HelpText:         lipgloss.Color("244"),

	ErrorForeground:  lipgloss.Color("160"),
	NoticeForeground: lipgloss.Color("28"),

	MatchForeground: lipgloss.Color("130"),

	AIAccent: lipgloss.Color("91"),
}

// ThemeFor maps a configured theme name ("dark", "light", "auto") to a
// palette. "auto" asks lipgloss whether the terminal background is
// dark.
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme
	case "dark":
		return DefaultTheme
	}
	if lipgloss.HasDarkBackground() {
		return DefaultTheme
	}
	return LightTheme
}
