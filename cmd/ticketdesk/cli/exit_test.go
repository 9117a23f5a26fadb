// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"testing"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

func TestJobFailedMessage(t *testing.T) {
	current := &ticket.Ticket{ID: 7, AILastError: "provider timeout"}
	if got, want := JobFailed(current, ticket.JobSummary).Error(), "AI summary for ticket #7 failed: provider timeout"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := JobFailed(&ticket.Ticket{ID: 7}, ticket.JobSummary).Error(), "AI summary for ticket #7 failed"; got != want {
		t.Errorf("Error() without reason = %q, want %q", got, want)
	}
}

func TestAlreadyReported(t *testing.T) {
	failed := JobFailed(&ticket.Ticket{ID: 7}, ticket.JobReply)
	code, ok := AlreadyReported(fmt.Errorf("ai reply: %w", failed))
	if !ok || code != 1 {
		t.Errorf("AlreadyReported(job failure) = %d, %v; want 1, true", code, ok)
	}
	if _, ok := AlreadyReported(Transient("server unavailable")); ok {
		t.Error("a ToolError has not been printed yet")
	}
	if _, ok := AlreadyReported(nil); ok {
		t.Error("nil is not a reported error")
	}
}
