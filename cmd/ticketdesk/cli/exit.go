// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// JobFailedError reports that an AI job a command waited on ended in
// the failed state. The command has already printed the job result,
// including Reason, so main exits without repeating it.
type JobFailedError struct {
	TicketID int64
	Job      ticket.Job

	// Reason is the server's ai_last_error, if any.
	Reason string
}

// JobFailed builds a JobFailedError from the ticket as last fetched.
func JobFailed(current *ticket.Ticket, job ticket.Job) *JobFailedError {
	return &JobFailedError{TicketID: current.ID, Job: job, Reason: current.AILastError}
}

func (e *JobFailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("AI %s for ticket #%d failed", e.Job, e.TicketID)
	}
	return fmt.Sprintf("AI %s for ticket #%d failed: %s", e.Job, e.TicketID, e.Reason)
}

// ExitCode reports a failed job with the internal category's code.
func (e *JobFailedError) ExitCode() int {
	return exitCodes[CategoryInternal]
}

// AlreadyReported returns the exit code for an error whose command
// has already written its output, and false for errors main must
// still print.
func AlreadyReported(err error) (code int, ok bool) {
	var jobFailed *JobFailedError
	if errors.As(err, &jobFailed) {
		return jobFailed.ExitCode(), true
	}
	return 0, false
}
