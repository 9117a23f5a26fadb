// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// pageParams are the paging and search flags shared by list and trash.
type pageParams struct {
	Query   string `json:"q"        flag:"query,q"  desc:"search title and description"`
	Sort    string `json:"sort"     flag:"sort"     desc:"sort order (-created_at, created_at, -priority, priority, status)"`
	Page    int    `json:"page"     flag:"page"     desc:"page number" default:"1"`
	PerPage int    `json:"per_page" flag:"per-page" desc:"tickets per page" default:"15"`
}

func (params *pageParams) filters() (ticket.Filters, error) {
	if !ticket.ValidSort(params.Sort) {
		return ticket.Filters{}, cli.Validation("unknown sort %q", params.Sort)
	}
	if params.Page < 1 || params.PerPage < 1 || params.PerPage > 100 {
		return ticket.Filters{}, cli.Validation("--page must be at least 1 and --per-page between 1 and 100")
	}
	return ticket.Filters{Page: params.Page, PerPage: params.PerPage, Query: params.Query, Sort: params.Sort}, nil
}

// --- list ---

type listParams struct {
	Connection
	cli.JSONOutput
	pageParams
	Status   string `json:"status"   flag:"status,s"   desc:"filter by status (open, in_progress, waiting, resolved, closed)"`
	Priority string `json:"priority" flag:"priority,p" desc:"filter by priority (low, medium, high)"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List tickets with optional filters",
		Description: `List one page of active tickets. Filters combine with AND semantics.
Trashed tickets are listed by "ticketdesk trash".`,
		Usage: "ticketdesk list [flags]",
		Examples: []cli.Example{
			{Description: "Open high-priority tickets", Command: "ticketdesk list --status open --priority high"},
			{Description: "Search, oldest first", Command: "ticketdesk list -q vpn --sort created_at"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			filters, err := params.filters()
			if err != nil {
				return err
			}
			if params.Status != "" {
				if filters.Status, err = ticket.ParseStatus(params.Status); err != nil {
					return cli.Validation("%w", err)
				}
			}
			if params.Priority != "" {
				if filters.Priority, err = ticket.ParsePriority(params.Priority); err != nil {
					return cli.Validation("%w", err)
				}
			}

			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			page, err := s.cached.ListTickets(ctx, filters)
			if err != nil {
				return cli.FromAPIError("list tickets", err)
			}
			if done, err := params.EmitJSON(page); done {
				return err
			}
			if len(page.Data) == 0 {
				logger.Info("no tickets found", "filters", filters.Key())
				return nil
			}
			if err := writeTicketTable(cli.Stdout, page.Data, s.renderer, time.Now()); err != nil {
				return err
			}
			writePageFooter(cli.Stdout, page.Meta)
			return nil
		},
	}
}

// --- trash ---

type trashParams struct {
	Connection
	cli.JSONOutput
	pageParams
}

func trashCommand() *cli.Command {
	var params trashParams

	return &cli.Command{
		Name:    "trash",
		Summary: "List trashed tickets",
		Description: `List one page of soft-deleted tickets. Restore them with
"ticketdesk restore" or delete them permanently with "ticketdesk purge".`,
		Usage:  "ticketdesk trash [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			filters, err := params.filters()
			if err != nil {
				return err
			}

			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			page, err := s.cached.ListTrashed(ctx, filters)
			if err != nil {
				return cli.FromAPIError("list trash", err)
			}
			if done, err := params.EmitJSON(page); done {
				return err
			}
			if len(page.Data) == 0 {
				logger.Info("trash is empty")
				return nil
			}
			if err := writeTicketTable(cli.Stdout, page.Data, s.renderer, time.Now()); err != nil {
				return err
			}
			writePageFooter(cli.Stdout, page.Meta)
			return nil
		},
	}
}

// --- show ---

type showParams struct {
	Connection
	cli.JSONOutput
}

func showCommand() *cli.Command {
	var params showParams
	const usage = "ticketdesk show <ticket-id> [flags]"

	return &cli.Command{
		Name:    "show",
		Summary: "Show ticket details",
		Description: `Display every field of one ticket: status, priority, provenance,
AI job states, the description, and any generated summary or reply.
The activity timeline is printed by "ticketdesk events".`,
		Usage: usage,
		Examples: []cli.Example{
			{Description: "Show a ticket", Command: "ticketdesk show 42"},
			{Description: "Show as JSON", Command: "ticketdesk show 42 --json"},
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

			current, err := s.cached.GetTicket(ctx, id)
			if err != nil {
				return cli.FromAPIError(fmt.Sprintf("show ticket %d", id), err)
			}
			if done, err := params.EmitJSON(current); done {
				return err
			}
			return writeTicketDetail(cli.Stdout, current, s.renderer, time.Now())
		},
	}
}

// --- create ---

type createParams struct {
	Connection
	cli.JSONOutput
	Title       string `json:"title"       flag:"title,t"       desc:"ticket title (required)"`
	Description string `json:"description" flag:"description,d" desc:"ticket description (markdown)"`
	Priority    string `json:"priority"    flag:"priority,p"    desc:"initial priority (low, medium, high)"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a ticket",
		Description: `Create a ticket. The server queues the AI summary, reply, and
priority jobs for every new ticket; follow them with "ticketdesk show"
or "ticketdesk ai <job> <id> --wait".`,
		Usage: "ticketdesk create --title TITLE [flags]",
		Examples: []cli.Example{
			{Description: "Create a ticket", Command: `ticketdesk create -t "VPN caiu" -d "Cai a cada cinco minutos." -p high`},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			request := ticket.CreateRequest{Title: params.Title, Description: params.Description}
			if params.Priority != "" {
				priority, err := ticket.ParsePriority(params.Priority)
				if err != nil {
					return cli.Validation("%w", err)
				}
				request.Priority = priority
			}
			if err := request.Validate(); err != nil {
				return cli.Validation("%w", err)
			}

			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			created, err := s.cached.CreateTicket(ctx, request)
			if err != nil {
				return cli.FromAPIError("create ticket", err)
			}
			if done, err := params.EmitJSON(created); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "created ticket %s\n", ticketRef(created))
			return nil
		},
	}
}

// --- update ---

type updateParams struct {
	Connection
	cli.JSONOutput
	Title       string `json:"title"       flag:"title,t"       desc:"new title"`
	Description string `json:"description" flag:"description,d" desc:"new description"`
	Priority    string `json:"priority"    flag:"priority,p"    desc:"new priority (low, medium, high)"`
	Status      string `json:"status"      flag:"status,s"      desc:"new status (open, in_progress, waiting, resolved, closed)"`
}

func (params *updateParams) request() (ticket.UpdateRequest, error) {
	var request ticket.UpdateRequest
	if params.Title != "" {
		request.Title = &params.Title
	}
	if params.Description != "" {
		request.Description = &params.Description
	}
	if params.Priority != "" {
		priority, err := ticket.ParsePriority(params.Priority)
		if err != nil {
			return request, cli.Validation("%w", err)
		}
		request.Priority = &priority
	}
	if params.Status != "" {
		status, err := ticket.ParseStatus(params.Status)
		if err != nil {
			return request, cli.Validation("%w", err)
		}
		request.Status = &status
	}
	if err := request.Validate(); err != nil {
		return request, cli.Validation("%w", err)
	}
	return request, nil
}

func updateCommand() *cli.Command {
	var params updateParams
	const usage = "ticketdesk update <ticket-id> [flags]"

	return &cli.Command{
		Name:    "update",
		Summary: "Update ticket fields",
		Description: `Change the title, description, priority, or status of a ticket.
Only the flags given are sent. Closing a ticket records who closed it;
moving it out of closed records a reopen.`,
		Usage: usage,
		Examples: []cli.Example{
			{Description: "Close a ticket", Command: "ticketdesk update 42 --status closed"},
			{Description: "Raise the priority", Command: "ticketdesk update 42 -p high"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			id, err := parseTicketID(args, usage)
			if err != nil {
				return err
			}
			request, err := params.request()
			if err != nil {
				return err
			}

			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			updated, err := s.cached.UpdateTicket(ctx, id, request)
			if err != nil {
				return cli.FromAPIError(fmt.Sprintf("update ticket %d", id), err)
			}
			if done, err := params.EmitJSON(updated); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "updated ticket %s\n", ticketRef(updated))
			return nil
		},
	}
}

// --- delete, restore, purge ---

type idParams struct {
	Connection
	cli.JSONOutput
}

func deleteCommand() *cli.Command {
	var params idParams
	const usage = "ticketdesk delete <ticket-id>"

	return &cli.Command{
		Name:        "delete",
		Summary:     "Move a ticket to the trash",
		Description: `Soft-delete a ticket. It stays restorable from the trash.`,
		Usage:       usage,
		Params:      func() any { return &params },
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

			if err := s.cached.DeleteTicket(ctx, id); err != nil {
				return cli.FromAPIError(fmt.Sprintf("delete ticket %d", id), err)
			}
			if done, err := params.EmitJSON(map[string]any{"id": id, "trashed": true}); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "moved ticket #%d to the trash\n", id)
			return nil
		},
	}
}

func restoreCommand() *cli.Command {
	var params idParams
	const usage = "ticketdesk restore <ticket-id>"

	return &cli.Command{
		Name:    "restore",
		Summary: "Restore a trashed ticket",
		Usage:   usage,
		Params:  func() any { return &params },
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

			restored, err := s.cached.RestoreTicket(ctx, id)
			if err != nil {
				return cli.FromAPIError(fmt.Sprintf("restore ticket %d", id), err)
			}
			if done, err := params.EmitJSON(restored); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "restored ticket %s\n", ticketRef(restored))
			return nil
		},
	}
}

type purgeParams struct {
	Connection
	cli.JSONOutput
	Force bool `json:"force" flag:"force,f" desc:"confirm permanent deletion"`
}

func purgeCommand() *cli.Command {
	var params purgeParams
	const usage = "ticketdesk purge <ticket-id> --force"

	return &cli.Command{
		Name:    "purge",
		Summary: "Permanently delete a trashed ticket",
		Description: `Permanently delete a ticket from the trash, with its activity
timeline. This cannot be undone, so --force is required.`,
		Usage:  usage,
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			id, err := parseTicketID(args, usage)
			if err != nil {
				return err
			}
			if !params.Force {
				return cli.Validation("purging ticket %d is permanent", id).
					WithHint("Pass --force to confirm.")
			}
			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.cached.ForceDeleteTicket(ctx, id); err != nil {
				return cli.FromAPIError(fmt.Sprintf("purge ticket %d", id), err)
			}
			if done, err := params.EmitJSON(map[string]any{"id": id, "purged": true}); done {
				return err
			}
			fmt.Fprintf(cli.Stdout, "permanently deleted ticket #%d\n", id)
			return nil
		},
	}
}
