// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/ticketdesk/ticketdesk/lib/aistatus"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
)

// maxTitleWidth bounds the title column of ticket tables.
const maxTitleWidth = 60

// writeTicketTable prints one row per ticket.
func writeTicketTable(w io.Writer, tickets []ticket.Ticket, renderer ticketevent.Renderer, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tSTATUS\tPRIORITY\tAI\tUPDATED\tTITLE\n")
	for _, entry := range tickets {
		badge := aistatus.CombineTicket(&entry).Label()
		if badge == "" {
			badge = "-"
		}
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t%s\n",
			entry.ID,
			ticketevent.StatusLabel(entry.Status),
			ticketevent.PriorityLabel(entry.Priority),
			badge,
			renderer.RelativeTimestamp(entry.UpdatedAt, now),
			ansi.Truncate(entry.Title, maxTitleWidth, "…"),
		)
	}
	return tw.Flush()
}

// writePageFooter prints the position of a page in the result set.
func writePageFooter(w io.Writer, meta ticket.PaginationMeta) {
	if meta.LastPage <= 1 {
		fmt.Fprintf(w, "\n%s ticket(s)\n", humanize.Comma(int64(meta.Total)))
		return
	}
	fmt.Fprintf(w, "\npage %d of %d, %s ticket(s)\n", meta.CurrentPage, meta.LastPage, humanize.Comma(int64(meta.Total)))
}

// writeTicketDetail prints every field of one ticket.
func writeTicketDetail(w io.Writer, current *ticket.Ticket, renderer ticketevent.Renderer, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t#%d\n", current.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", current.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", ticketevent.StatusLabel(current.Status))
	fmt.Fprintf(tw, "Priority:\t%s\n", ticketevent.PriorityLabel(current.Priority))
	if current.Trashed() {
		fmt.Fprintf(tw, "Trashed:\t%s\n", renderer.Timestamp(current.DeletedAt))
	}
	writeProvenance(tw, "Created:", current.CreatedAt, current.CreatedByUser, renderer, now)
	if current.UpdatedAt != current.CreatedAt {
		writeProvenance(tw, "Updated:", current.UpdatedAt, current.UpdatedByUser, renderer, now)
	}
	if current.ClosedAt != "" {
		writeProvenance(tw, "Closed:", current.ClosedAt, current.ClosedByUser, renderer, now)
	}
	if current.ReopenedByUser != nil {
		fmt.Fprintf(tw, "Reopened by:\t%s\n", current.ReopenedByUser.DisplayName())
	}
	if current.AssignedTo != 0 {
		fmt.Fprintf(tw, "Assigned to:\tID %d\n", current.AssignedTo)
	}
	for _, job := range ticket.Jobs {
		fmt.Fprintf(tw, "AI %s:\t%s\n", job, aistatus.Indicator(current.JobStatus(job)).Label)
	}
	if current.AILastError != "" {
		fmt.Fprintf(tw, "AI error:\t%s\n", current.AILastError)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	writeSection(w, "Description", current.Description)
	writeSection(w, "AI summary", current.AISummary)
	writeSection(w, "Suggested reply", current.AISuggestedReply)
	return nil
}

func writeProvenance(w io.Writer, label, at string, user *ticket.UserRef, renderer ticketevent.Renderer, now time.Time) {
	line := renderer.Timestamp(at) + " (" + renderer.RelativeTimestamp(at, now) + ")"
	if name := user.DisplayName(); name != "" {
		line += " by " + name
	}
	fmt.Fprintf(w, "%s\t%s\n", label, line)
}

// writeSection prints a titled block of free text, indented. Empty
// text prints nothing.
func writeSection(w io.Writer, title, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, line := range strings.Split(ansi.Wrap(text, 76, ""), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// ticketRef formats "#7 title" for confirmations.
func ticketRef(current *ticket.Ticket) string {
	return "#" + strconv.FormatInt(current.ID, 10) + " " + strconv.Quote(current.Title)
}
