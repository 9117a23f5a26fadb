// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

// EventType classifies an activity event. The server may introduce
// new types at any time; unknown values decode unchanged and are
// rendered generically.
type EventType string

const (
	EventCreated        EventType = "created"
	EventUpdated        EventType = "updated"
	EventStatusChanged  EventType = "status_changed"
	EventDeleted        EventType = "deleted"
	EventRestored       EventType = "restored"
	EventAISummaryDone  EventType = "ai_summary_done"
	EventAIReplyDone    EventType = "ai_reply_done"
	EventAIPriorityDone EventType = "ai_priority_done"
)

// EventTypes lists the event types this client knows how to render.
var EventTypes = []EventType{
	EventCreated,
	EventUpdated,
	EventStatusChanged,
	EventDeleted,
	EventRestored,
	EventAISummaryDone,
	EventAIReplyDone,
	EventAIPriorityDone,
}

// Known reports whether t is one of EventTypes.
func (t EventType) Known() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Event is one immutable entry in a ticket's activity timeline. The
// server produces events whenever a ticket mutates; the client only
// reads them.
type Event struct {
	ID       int64     `json:"id"`
	TicketID int64     `json:"ticket_id"`
	Type     EventType `json:"type"`

	// Meta is nil when the server sent null or omitted the field.
	Meta *Meta `json:"meta"`

	// User is the actor, or nil for system-generated events (AI job
	// completions, scheduled transitions).
	User *UserRef `json:"user,omitempty"`

	CreatedAt string `json:"created_at"`
}

// Author returns the actor's display name, or fallback for system
// events and actors without a name or email.
func (e *Event) Author(fallback string) string {
	if name := e.User.DisplayName(); name != "" {
		return name
	}
	return fallback
}
