// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a log record to the status bar.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// TUILogHandler is a slog.Handler that routes records into the running
// bubbletea program as status bar notices, so logging never writes
// over the alternate screen. Records below the level are dropped, as
// are records that arrive before SetProgram.
//
// Handlers derived with WithAttrs and WithGroup share the program
// pointer of their root.
type TUILogHandler struct {
	level  slog.Leveler
	send   *atomic.Pointer[func(tea.Msg)]
	attrs  []slog.Attr
	prefix string
}

// NewTUILogHandler creates a handler for records at or above level.
func NewTUILogHandler(level slog.Leveler) *TUILogHandler {
	return &TUILogHandler{
		level: level,
		send:  &atomic.Pointer[func(tea.Msg)]{},
	}
}

// SetProgram starts delivery to program. Safe from any goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.setSender(program.Send)
}

func (handler *TUILogHandler) setSender(send func(tea.Msg)) {
	handler.send.Store(&send)
}

// Enabled implements slog.Handler.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle implements slog.Handler. The notice reads
// "message (key=value, ...)".
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	send := handler.send.Load()
	if send == nil {
		return nil
	}

	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, attr.Key+"="+attr.Value.String())
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, handler.prefix+attr.Key+"="+attr.Value.String())
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	(*send)(logRecordMsg{Summary: summary, Level: record.Level})
	return nil
}

// WithAttrs implements slog.Handler.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = append([]slog.Attr(nil), handler.attrs...)
	for _, attr := range attrs {
		attr.Key = handler.prefix + attr.Key
		derived.attrs = append(derived.attrs, attr)
	}
	return &derived
}

// WithGroup implements slog.Handler. Group names prefix later keys
// with "group.".
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.attrs = append([]slog.Attr(nil), handler.attrs...)
	derived.prefix = handler.prefix + name + "."
	return &derived
}
