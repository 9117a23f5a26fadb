// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:    "stats",
		Summary: "Show dashboard statistics",
		Description: `Print the aggregates behind the dashboard: ticket counts by status
and priority, the aging backlog, and the recent activity feed.`,
		Usage: "ticketdesk stats <summary|backlog|activity> [flags]",
		Subcommands: []*cli.Command{
			statsSummaryCommand(),
			statsBacklogCommand(),
			statsActivityCommand(),
		},
	}
}

type statsParams struct {
	Connection
	cli.JSONOutput
}

var statusOrder = []ticket.Status{
	ticket.StatusOpen,
	ticket.StatusInProgress,
	ticket.StatusWaiting,
	ticket.StatusResolved,
	ticket.StatusClosed,
}

var priorityOrder = []ticket.Priority{ticket.PriorityHigh, ticket.PriorityMedium, ticket.PriorityLow}

func statsSummaryCommand() *cli.Command {
	var params statsParams

	return &cli.Command{
		Name:    "summary",
		Summary: "Ticket counts by status and priority",
		Usage:   "ticketdesk stats summary [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			summary, err := s.cached.Summary(ctx)
			if err != nil {
				return cli.FromAPIError("load summary", err)
			}
			if done, err := params.EmitJSON(summary); done {
				return err
			}

			tw := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Active tickets:\t%s\n", humanize.Comma(int64(summary.TotalActive)))
			fmt.Fprintf(tw, "Average time to close:\t%s\n", ticketevent.TimeToClose(summary.AverageTimeToCloseHours))
			fmt.Fprintf(tw, "Closed today:\t%s\n", humanize.Comma(int64(summary.Closed.Today)))
			fmt.Fprintf(tw, "Closed, last 7 days:\t%s\n", humanize.Comma(int64(summary.Closed.Last7Days)))
			fmt.Fprintf(tw, "Closed, last 30 days:\t%s\n", humanize.Comma(int64(summary.Closed.Last30Days)))
			fmt.Fprintf(tw, "\t\n")
			for _, status := range statusOrder {
				fmt.Fprintf(tw, "%s:\t%s\n", ticketevent.StatusLabel(status), humanize.Comma(int64(summary.ByStatus[status])))
			}
			fmt.Fprintf(tw, "\t\n")
			for _, priority := range priorityOrder {
				fmt.Fprintf(tw, "%s:\t%s\n", ticketevent.PriorityLabel(priority), humanize.Comma(int64(summary.ByPriority[priority])))
			}
			return tw.Flush()
		},
	}
}

func statsBacklogCommand() *cli.Command {
	var params statsParams

	return &cli.Command{
		Name:    "backlog",
		Summary: "Aging of open tickets",
		Usage:   "ticketdesk stats backlog [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			backlog, err := s.cached.Backlog(ctx)
			if err != nil {
				return cli.FromAPIError("load backlog", err)
			}
			if done, err := params.EmitJSON(backlog); done {
				return err
			}

			tw := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Older than 2 days:\t%s\n", humanize.Comma(int64(backlog.Counts.OlderThan2Days)))
			fmt.Fprintf(tw, "Older than 7 days:\t%s\n", humanize.Comma(int64(backlog.Counts.OlderThan7Days)))
			fmt.Fprintf(tw, "Older than 14 days:\t%s\n", humanize.Comma(int64(backlog.Counts.OlderThan14Days)))
			if err := tw.Flush(); err != nil {
				return err
			}
			if len(backlog.OldestOpen) == 0 {
				return nil
			}
			fmt.Fprintf(cli.Stdout, "\nOldest open tickets:\n")
			return writeTicketTable(cli.Stdout, backlog.OldestOpen, s.renderer, time.Now())
		},
	}
}

type activityParams struct {
	Connection
	cli.JSONOutput
	Limit int `json:"limit" flag:"limit,n" desc:"number of entries" default:"50"`
}

func statsActivityCommand() *cli.Command {
	var params activityParams

	return &cli.Command{
		Name:    "activity",
		Summary: "Recent activity across all tickets",
		Usage:   "ticketdesk stats activity [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if params.Limit < 1 || params.Limit > 100 {
				return cli.Validation("--limit must be between 1 and 100, got %d", params.Limit)
			}
			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.cached.Activity(ctx, params.Limit)
			if err != nil {
				return cli.FromAPIError("load activity", err)
			}
			if done, err := params.EmitJSON(entries); done {
				return err
			}

			now := time.Now()
			tw := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "WHEN\tTICKET\tACTIVITY\tTITLE\n")
			for _, entry := range entries {
				formatted := ticketevent.FormatActivity(entry)
				fmt.Fprintf(tw, "%s\t#%d\t%s %s\t%s\n",
					s.renderer.RelativeTimestamp(entry.Timestamp, now),
					entry.TicketID,
					formatted.Category.Glyph(),
					formatted.Label,
					entry.TicketTitle,
				)
			}
			return tw.Flush()
		},
	}
}
