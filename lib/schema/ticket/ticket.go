// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusWaiting    Status = "waiting"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists every status in lifecycle order. The index of a
// status in this slice is its position in the forward/backward
// classification of status changes.
var Statuses = []Status{
	StatusOpen,
	StatusInProgress,
	StatusWaiting,
	StatusResolved,
	StatusClosed,
}

// Valid reports whether s is one of the known status codes.
func (s Status) Valid() bool {
	return s.Order() >= 0
}

// Order returns the lifecycle position of s (open=0 through
// closed=4), or -1 for an unknown code.
func (s Status) Order() int {
	for index, status := range Statuses {
		if status == s {
			return index
		}
	}
	return -1
}

// ParseStatus converts a user-supplied string to a Status. Matching
// is case-insensitive and accepts hyphens in place of underscores so
// that "in-progress" works on the command line.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_"))
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q (valid: %s)", value, joinCodes(Statuses))
	}
	return status, nil
}

// Priority is the urgency of a ticket. A ticket without a priority
// carries the empty Priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priority codes. The
// empty priority is not valid; callers that accept "no priority"
// check for it separately.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts a user-supplied string to a Priority.
func ParsePriority(value string) (Priority, error) {
	priority := Priority(strings.ToLower(strings.TrimSpace(value)))
	if !priority.Valid() {
		return "", fmt.Errorf("unknown priority %q (valid: %s)", value, joinCodes(Priorities))
	}
	return priority, nil
}

// JobStatus is the state of one AI sub-job on a ticket. Transitions
// are driven by the server's job system; the client only observes
// them.
type JobStatus string

const (
	JobStatusIdle       JobStatus = "idle"
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Job identifies one of the three AI features attached to a ticket.
type Job string

const (
	JobSummary  Job = "summary"
	JobReply    Job = "reply"
	JobPriority Job = "priority"
)

// Jobs lists the AI jobs in display order.
var Jobs = []Job{JobSummary, JobReply, JobPriority}

// ParseJob converts a user-supplied string to a Job.
func ParseJob(value string) (Job, error) {
	job := Job(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Jobs {
		if job == known {
			return job, nil
		}
	}
	return "", fmt.Errorf("unknown AI job %q (valid: %s)", value, joinCodes(Jobs))
}

// Endpoint returns the path segment that enqueues this job, e.g.
// "ai-summary" for POST /api/tickets/{id}/ai-summary.
func (j Job) Endpoint() string {
	return "ai-" + string(j)
}

// UserRef is the abbreviated user embedded in tickets and events.
type UserRef struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// DisplayName returns the name, falling back to the email. Returns
// the empty string for a nil reference.
func (u *UserRef) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// User is the authenticated account returned by /api/auth/me.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Ticket is a support ticket as returned by the API. The client never
// computes ticket state locally; every Ticket is a cached copy of a
// server response.
type Ticket struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// AISummary and AISuggestedReply hold the results of the summary
	// and reply jobs. Empty until the corresponding job has run.
	AISummary        string `json:"ai_summary,omitempty"`
	AISuggestedReply string `json:"ai_suggested_reply,omitempty"`

	// Priority is empty when the ticket has not been prioritized.
	Priority Priority `json:"priority,omitempty"`
	Status   Status   `json:"status"`

	// AssignedTo is the assignee's user ID, or 0 when unassigned.
	AssignedTo int64  `json:"assigned_to,omitempty"`
	ClosedAt   string `json:"closed_at,omitempty"`

	AISummaryStatus  JobStatus `json:"ai_summary_status"`
	AIReplyStatus    JobStatus `json:"ai_reply_status"`
	AIPriorityStatus JobStatus `json:"ai_priority_status"`

	// AILastError carries the server's message for the most recent
	// failed AI job, if any.
	AILastError string `json:"ai_last_error,omitempty"`

	// Tracking user IDs. Zero means the server sent null (tickets
	// created before tracking existed have no creator).
	CreatedBy  int64 `json:"created_by,omitempty"`
	UpdatedBy  int64 `json:"updated_by,omitempty"`
	ClosedBy   int64 `json:"closed_by,omitempty"`
	ReopenedBy int64 `json:"reopened_by,omitempty"`

	CreatedByUser  *UserRef `json:"created_by_user,omitempty"`
	UpdatedByUser  *UserRef `json:"updated_by_user,omitempty"`
	ClosedByUser   *UserRef `json:"closed_by_user,omitempty"`
	ReopenedByUser *UserRef `json:"reopened_by_user,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	DeletedAt string `json:"deleted_at,omitempty"`
}

// JobStatus returns the status of one AI sub-job. An empty status
// from the server reads as idle. Unknown jobs report idle.
func (t *Ticket) JobStatus(job Job) JobStatus {
	var status JobStatus
	switch job {
	case JobSummary:
		status = t.AISummaryStatus
	case JobReply:
		status = t.AIReplyStatus
	case JobPriority:
		status = t.AIPriorityStatus
	}
	if status == "" {
		return JobStatusIdle
	}
	return status
}

// Trashed reports whether the ticket has been soft-deleted.
func (t *Ticket) Trashed() bool {
	return t.DeletedAt != ""
}

// EditableBy reports whether user may edit or delete the ticket.
// Administrators may modify any ticket, tickets without a recorded
// creator are open to every authenticated user, and otherwise only
// the creator may modify. A nil user (not authenticated) may modify
// nothing.
func (t *Ticket) EditableBy(user *User) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin || t.CreatedBy == 0 {
		return true
	}
	return t.CreatedBy == user.ID
}

// maxTitleLength is the server's column limit for ticket titles,
// counted in characters.
const maxTitleLength = 255

// CreateRequest is the body of POST /api/tickets.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority,omitempty"`
}

// Validate checks the request before it is sent. The server performs
// the same checks; validating locally gives the CLI a categorized
// error without a round-trip.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("create ticket: title is required")
	}
	if length := utf8.RuneCountInString(r.Title); length > maxTitleLength {
		return fmt.Errorf("create ticket: title must be at most %d characters, got %d", maxTitleLength, length)
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return fmt.Errorf("create ticket: unknown priority %q", r.Priority)
	}
	return nil
}

// UpdateRequest is the body of PATCH /api/tickets/{id}. Nil fields
// are omitted from the request and left unchanged by the server.
type UpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

// Empty reports whether the request changes nothing.
func (r *UpdateRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Priority == nil && r.Status == nil
}

// Validate checks the fields that are set.
func (r *UpdateRequest) Validate() error {
	if r.Empty() {
		return errors.New("update ticket: no fields to update")
	}
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return errors.New("update ticket: title cannot be empty")
		}
		if length := utf8.RuneCountInString(*r.Title); length > maxTitleLength {
			return fmt.Errorf("update ticket: title must be at most %d characters, got %d", maxTitleLength, length)
		}
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return fmt.Errorf("update ticket: unknown priority %q", *r.Priority)
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("update ticket: unknown status %q", *r.Status)
	}
	return nil
}

// AIJobResponse is the response to an AI enqueue request: the ticket
// as updated by the server plus the job that was queued.
type AIJobResponse struct {
	Data Ticket `json:"data"`
	Meta struct {
		Status JobStatus `json:"status"`
		Job    Job       `json:"job"`
	} `json:"meta"`
}

// ParseTime parses an API timestamp. The server emits RFC 3339 with
// optional fractional seconds.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

func joinCodes[T ~string](codes []T) string {
	parts := make([]string, len(codes))
	for index, code := range codes {
		parts[index] = string(code)
	}
	return strings.Join(parts, ", ")
}
