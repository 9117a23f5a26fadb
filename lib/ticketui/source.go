// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketapi"
)

// Source is the data access the dashboard needs. Reads are expected
// to be cached and mutations to invalidate what they change.
type Source interface {
	ListTickets(ctx context.Context, filters ticket.Filters) (*ticket.Page[ticket.Ticket], error)
	ListTrashed(ctx context.Context, filters ticket.Filters) (*ticket.Page[ticket.Ticket], error)
	GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error)
	TicketEvents(ctx context.Context, id int64, page, perPage int) (*ticket.Page[ticket.Event], error)

	Summary(ctx context.Context) (*ticket.Summary, error)
	Backlog(ctx context.Context) (*ticket.Backlog, error)
	Activity(ctx context.Context, limit int) ([]ticket.ActivityEntry, error)
	Me(ctx context.Context) (*ticket.User, error)

	// Revalidate refetches a ticket and its first events page,
	// bypassing freshness, and reports whether the ticket changed.
	Revalidate(ctx context.Context, id int64, perPage int) (*ticket.Ticket, bool, error)

	UpdateTicket(ctx context.Context, id int64, request ticket.UpdateRequest) (*ticket.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
	RestoreTicket(ctx context.Context, id int64) (*ticket.Ticket, error)
	ForceDeleteTicket(ctx context.Context, id int64) error
	EnqueueAI(ctx context.Context, id int64, job ticket.Job) (*ticket.AIJobResponse, error)
}

var _ Source = (*ticketapi.Cached)(nil)
