// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package aistatus

import "github.com/ticketdesk/ticketdesk/lib/schema/ticket"

// IsProcessing reports whether a job is queued or running.
func IsProcessing(status ticket.JobStatus) bool {
	return status == ticket.JobStatusQueued || status == ticket.JobStatusProcessing
}

// AnyProcessing reports whether any of the given jobs is queued or
// running.
func AnyProcessing(statuses ...ticket.JobStatus) bool {
	for _, status := range statuses {
		if IsProcessing(status) {
			return true
		}
	}
	return false
}

// TicketProcessing reports whether any of a ticket's AI jobs is in
// flight. A nil ticket is not processing.
func TicketProcessing(t *ticket.Ticket) bool {
	if t == nil {
		return false
	}
	return AnyProcessing(t.AISummaryStatus, t.AIReplyStatus, t.AIPriorityStatus)
}

// CanEnqueue reports whether the generate action for a job may be
// offered. A job that is already queued or running must not be
// submitted again.
func CanEnqueue(status ticket.JobStatus) bool {
	return !IsProcessing(status)
}

// Combined is the single AI badge shown for a ticket.
type Combined int

const (
	CombinedNone Combined = iota
	CombinedDone
	CombinedFailed
	CombinedProcessing
)

// Combine reduces three job statuses to one badge. In-flight work
// outranks failures, which outrank successes: a failed reply hides a
// completed summary until the failure is resolved.
func Combine(summary, reply, priority ticket.JobStatus) Combined {
	statuses := []ticket.JobStatus{summary, reply, priority}
	switch {
	case AnyProcessing(statuses...):
		return CombinedProcessing
	case anyEqual(statuses, ticket.JobStatusFailed):
		return CombinedFailed
	case anyEqual(statuses, ticket.JobStatusDone):
		return CombinedDone
	}
	return CombinedNone
}

// CombineTicket applies Combine to a ticket's statuses.
func CombineTicket(t *ticket.Ticket) Combined {
	return Combine(t.AISummaryStatus, t.AIReplyStatus, t.AIPriorityStatus)
}

func anyEqual(statuses []ticket.JobStatus, want ticket.JobStatus) bool {
	for _, status := range statuses {
		if status == want {
			return true
		}
	}
	return false
}

// Label returns the badge text, or the empty string for CombinedNone.
func (c Combined) Label() string {
	switch c {
	case CombinedProcessing:
		return "IA processando"
	case CombinedFailed:
		return "IA erro"
	case CombinedDone:
		return "IA pronta"
	}
	return ""
}

// String returns the badge's short name.
func (c Combined) String() string {
	switch c {
	case CombinedProcessing:
		return "processing"
	case CombinedFailed:
		return "failed"
	case CombinedDone:
		return "done"
	}
	return "none"
}

// MarshalText encodes the badge by short name.
func (c Combined) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Color returns the badge color as a hex string.
func (c Combined) Color() string {
	switch c {
	case CombinedProcessing:
		return "#3b82f6"
	case CombinedFailed:
		return "#ef4444"
	case CombinedDone:
		return "#22c55e"
	}
	return "#64748b"
}

// JobIndicator describes one job's status for display.
type JobIndicator struct {
	Label string
	Glyph string
	Color string

	// Animated is true while the job is in flight.
	Animated bool
}

// Indicator describes a single job status. Unknown statuses render as
// idle.
func Indicator(status ticket.JobStatus) JobIndicator {
	switch status {
	case ticket.JobStatusQueued:
		return JobIndicator{Label: "Na fila", Glyph: "✦", Color: "#a855f7", Animated: true}
	case ticket.JobStatusProcessing:
		return JobIndicator{Label: "Processando", Glyph: "◌", Color: "#3b82f6", Animated: true}
	case ticket.JobStatusDone:
		return JobIndicator{Label: "Concluído", Glyph: "✓", Color: "#22c55e"}
	case ticket.JobStatusFailed:
		return JobIndicator{Label: "Falhou", Glyph: "✗", Color: "#ef4444"}
	}
	return JobIndicator{Label: "Não processado", Glyph: "○", Color: "#64748b"}
}
