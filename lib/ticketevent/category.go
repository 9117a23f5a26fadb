// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketevent

// Category is the icon class of a formatted event. Each category has
// a fixed icon, terminal glyph, and color.
type Category int

const (
	CategoryEdit Category = iota
	CategoryCreated
	CategoryClosed
	CategoryReopened
	CategoryForward
	CategoryBackward
	CategoryDeleted
	CategoryRestored
	CategorySummary
	CategoryReply
	CategoryPriority
)

type categoryStyle struct {
	name  string
	icon  string
	glyph string
	color string
	hex   string
}

var categoryStyles = map[Category]categoryStyle{
	CategoryCreated:  {"created", "Plus", "+", "emerald", "#10b981"},
	CategoryEdit:     {"edit", "Edit", "✎", "blue", "#3b82f6"},
	CategoryClosed:   {"closed", "CheckCircle2", "✓", "slate", "#64748b"},
	CategoryReopened: {"reopened", "RotateCcw", "↺", "amber", "#f59e0b"},
	CategoryForward:  {"forward", "ArrowUpRight", "↗", "teal", "#14b8a6"},
	CategoryBackward: {"backward", "ArrowDownRight", "↘", "cyan", "#06b6d4"},
	CategoryDeleted:  {"deleted", "Trash2", "✕", "red", "#ef4444"},
	CategoryRestored: {"restored", "Undo2", "↶", "orange", "#f97316"},
	CategorySummary:  {"summary", "Sparkles", "✦", "fuchsia", "#d946ef"},
	CategoryReply:    {"reply", "MessageSquare", "✉", "indigo", "#6366f1"},
	CategoryPriority: {"priority", "AlertTriangle", "⚠", "rose", "#f43f5e"},
}

func (c Category) style() categoryStyle {
	if style, ok := categoryStyles[c]; ok {
		return style
	}
	return categoryStyles[CategoryEdit]
}

// String returns the category's short name ("closed", "forward"),
// used in JSON output.
func (c Category) String() string { return c.style().name }

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Icon returns the icon name in the dashboard's icon set.
func (c Category) Icon() string { return c.style().icon }

// Glyph returns a single-cell symbol for terminal rendering.
func (c Category) Glyph() string { return c.style().glyph }

// Color returns the category's color as a hex string.
func (c Category) Color() string { return c.style().hex }

// ColorClass returns the utility classes for a bordered, tinted badge
// in the category's color, e.g.
// "bg-emerald-500/10 text-emerald-500 border-emerald-500/30".
func (c Category) ColorClass() string {
	color := c.style().color
	return "bg-" + color + "-500/10 text-" + color + "-500 border-" + color + "-500/30"
}
