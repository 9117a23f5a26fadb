// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

// Summary is the aggregate returned by GET /api/tickets/summary.
type Summary struct {
	ByStatus    map[Status]int   `json:"by_status"`
	ByPriority  map[Priority]int `json:"by_priority"`
	TotalActive int              `json:"total_active"`
	Closed      struct {
		Today      int `json:"today"`
		Last7Days  int `json:"last_7_days"`
		Last30Days int `json:"last_30_days"`
	} `json:"closed"`

	// AverageTimeToCloseHours is nil when no ticket has been closed.
	AverageTimeToCloseHours *float64 `json:"average_time_to_close_hours"`
}

// Backlog is the aggregate returned by GET /api/tickets/backlog.
type Backlog struct {
	Counts struct {
		OlderThan2Days  int `json:"older_than_2_days"`
		OlderThan7Days  int `json:"older_than_7_days"`
		OlderThan14Days int `json:"older_than_14_days"`
	} `json:"counts"`
	OldestOpen []Ticket `json:"oldest_open"`
}

// ActivityType classifies an entry in the global activity feed. The
// feed is coarser than per-ticket events: AI completions collapse to
// one type and status changes carry a subtype.
type ActivityType string

const (
	ActivityCreated       ActivityType = "created"
	ActivityUpdated       ActivityType = "updated"
	ActivityStatusChanged ActivityType = "status_changed"
	ActivityAIDone        ActivityType = "ai_done"
)

// ActivityEntry is one row of GET /api/tickets/activity.
type ActivityEntry struct {
	TicketID    int64        `json:"ticket_id"`
	TicketTitle string       `json:"ticket_title"`
	Type        ActivityType `json:"type"`

	// Subtype is "closed" or "reopened" for status changes.
	Subtype string `json:"subtype,omitempty"`

	// AIType names the AI job for ai_done entries.
	AIType    Job    `json:"ai_type,omitempty"`
	Timestamp string `json:"timestamp"`
}
