// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func captureHandler(level slog.Level) (*TUILogHandler, *[]logRecordMsg) {
	var received []logRecordMsg
	handler := NewTUILogHandler(level)
	handler.setSender(func(message tea.Msg) {
		received = append(received, message.(logRecordMsg))
	})
	return handler, &received
}

func TestTUILogHandlerFormatsSummary(t *testing.T) {
	handler, received := captureHandler(slog.LevelInfo)
	logger := slog.New(handler).With("ticket_id", 7).WithGroup("ai")

	logger.Info("job enqueued", "job", "summary")
	logger.Debug("dropped")

	if len(*received) != 1 {
		t.Fatalf("received %d records, want 1", len(*received))
	}
	got := (*received)[0]
	if got.Summary != "job enqueued (ticket_id=7, ai.job=summary)" {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.Level != slog.LevelInfo {
		t.Errorf("Level = %v", got.Level)
	}
}

func TestTUILogHandlerDropsBeforeProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelDebug)
	// No sender set: Handle must not panic.
	slog.New(handler).Error("lost")
}

func TestTUILogHandlerDerivedShareSender(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelInfo)
	derived := slog.New(handler).With("component", "poller")

	var received []logRecordMsg
	handler.setSender(func(message tea.Msg) {
		received = append(received, message.(logRecordMsg))
	})
	derived.Warn("revalidation failed")

	if len(received) != 1 || received[0].Summary != "revalidation failed (component=poller)" {
		t.Errorf("received = %+v", received)
	}
}
