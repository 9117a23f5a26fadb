// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
	"github.com/ticketdesk/ticketdesk/lib/timeline"
)

type eventsParams struct {
	Connection
	cli.JSONOutput
	Page        int  `json:"page"         flag:"page"         desc:"timeline page" default:"1"`
	OldestFirst bool `json:"oldest_first" flag:"oldest-first" desc:"list the oldest event first"`
	Details     bool `json:"details"      flag:"details"      desc:"print the changed fields and metadata of each event"`
}

// eventsOutput is the JSON form of one timeline page.
type eventsOutput struct {
	TicketID    int64        `json:"ticket_id"`
	Page        int          `json:"page"`
	LastPage    int          `json:"last_page"`
	Total       int          `json:"total"`
	NewestFirst bool         `json:"newest_first"`
	Entries     []eventEntry `json:"entries"`
}

type eventEntry struct {
	ID        int64                  `json:"id"`
	Type      string                 `json:"type"`
	Formatted ticketevent.Formatted  `json:"formatted"`
	Author    string                 `json:"author"`
	CreatedAt string                 `json:"created_at"`
	Timestamp string                 `json:"timestamp"`
	Meta      *ticketevent.MetaBlock `json:"meta,omitempty"`
}

func eventsCommand() *cli.Command {
	var params eventsParams
	const usage = "ticketdesk events <ticket-id> [flags]"

	return &cli.Command{
		Name:    "events",
		Summary: "Show a ticket's activity timeline",
		Description: `Print one page of a ticket's activity timeline, 20 events per page.
Each event shows its label, author, and time. With --details, field
changes print as a before/after table followed by any other metadata.`,
		Usage: usage,
		Examples: []cli.Example{
			{Description: "Latest activity", Command: "ticketdesk events 42"},
			{Description: "Second page, oldest first, with changes", Command: "ticketdesk events 42 --page 2 --oldest-first --details"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			id, err := parseTicketID(args, usage)
			if err != nil {
				return err
			}
			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			controller := timeline.New(id, timeline.Options{Renderer: s.renderer})
			controller.SetNewestFirst(!params.OldestFirst)
			query, ok := controller.GoToPage(params.Page)
			if !ok {
				return cli.Validation("invalid ticket ID %d", id)
			}
			page, err := s.cached.TicketEvents(ctx, query.TicketID, query.Page, query.PerPage)
			controller.Resolve(query, page, err)
			if controller.State() == timeline.StateError {
				return cli.FromAPIError(fmt.Sprintf("load events of ticket %d", id), controller.Err())
			}

			entries := controller.Entries()
			if params.OutputJSON {
				output := eventsOutput{
					TicketID:    id,
					Page:        controller.Page(),
					LastPage:    controller.LastPage(),
					Total:       controller.Total(),
					NewestFirst: controller.NewestFirst(),
					Entries:     make([]eventEntry, 0, len(entries)),
				}
				for _, entry := range entries {
					output.Entries = append(output.Entries, eventEntry{
						ID:        entry.Event.ID,
						Type:      string(entry.Event.Type),
						Formatted: entry.Formatted,
						Author:    entry.Author,
						CreatedAt: entry.Event.CreatedAt,
						Timestamp: entry.Timestamp,
						Meta:      entry.Meta,
					})
				}
				return cli.WriteJSON(output)
			}

			if controller.State() == timeline.StateEmpty {
				fmt.Fprintln(cli.Stdout, timeline.EmptyTitle)
				fmt.Fprintln(cli.Stdout, timeline.EmptyHint)
				return nil
			}
			for index, entry := range entries {
				if index > 0 {
					fmt.Fprintln(cli.Stdout)
				}
				if err := writeEventEntry(cli.Stdout, entry, params.Details); err != nil {
					return err
				}
			}
			fmt.Fprintln(cli.Stdout)
			if controller.ShowPagination() {
				fmt.Fprintf(cli.Stdout, "%s · ", controller.PageLabel())
			}
			fmt.Fprintln(cli.Stdout, controller.SortLabel())
			return nil
		},
	}
}

// writeEventEntry prints one timeline entry. The metadata table is
// printed only when details is set and the event has any.
func writeEventEntry(w io.Writer, entry timeline.Entry, details bool) error {
	marker := entry.Formatted.Category.Glyph()
	if entry.Formatted.IsAI {
		marker += " IA"
	}
	fmt.Fprintf(w, "%s %s · %s · %s\n", marker, entry.Formatted.Label, entry.Author, entry.Timestamp)
	if entry.Formatted.Details != "" {
		fmt.Fprintf(w, "  %s\n", entry.Formatted.Details)
	}
	if !details || entry.Meta == nil {
		return nil
	}

	if len(entry.Meta.Changes) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", ticketevent.HeaderField, ticketevent.HeaderBefore, ticketevent.HeaderAfter)
		for _, change := range entry.Meta.Changes {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", change.Label, change.Before, change.After)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	for _, extra := range entry.Meta.Extras {
		fmt.Fprintf(w, "  %s: %s\n", extra.Label, extra.Value)
	}
	return nil
}
