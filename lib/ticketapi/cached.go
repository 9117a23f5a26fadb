// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketapi

import (
	"context"
	"fmt"
	"time"

	"github.com/ticketdesk/ticketdesk/lib/querycache"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// Cache key families. Invalidating a family prefix covers every key
// below it.
const (
	keyTicketList  = "tickets/list"
	keyTrashedList = "tickets/trashed"
	keyTicket      = "tickets/id"
	keyEvents      = "ticket-events"
	keyStats       = "stats"
	keyMe          = "auth/me"
)

// statsStaleTime applies to the analytics aggregates and the current
// user.
const statsStaleTime = time.Minute

// Cached serves reads through a query cache and keeps the cache
// coherent across mutations. Safe for concurrent use.
type Cached struct {
	client *Client
	cache  *querycache.Cache
}

// NewCached wraps client with cache.
func NewCached(client *Client, cache *querycache.Cache) *Cached {
	return &Cached{client: client, cache: cache}
}

// Client returns the underlying uncached client.
func (cached *Cached) Client() *Client { return cached.client }

// Cache returns the query cache.
func (cached *Cached) Cache() *querycache.Cache { return cached.cache }

func ticketKey(id int64) string {
	return fmt.Sprintf("%s/%d", keyTicket, id)
}

func eventsPrefix(id int64) string {
	return fmt.Sprintf("%s/%d", keyEvents, id)
}

// EventsKey returns the cache key of one timeline page.
func EventsKey(id int64, page, perPage int) string {
	return fmt.Sprintf("%s/page=%d&per_page=%d", eventsPrefix(id), page, perPage)
}

// ListTickets returns a page of active tickets.
func (cached *Cached) ListTickets(ctx context.Context, filters ticket.Filters) (*ticket.Page[ticket.Ticket], error) {
	page, _, err := querycache.Fetch(ctx, cached.cache, keyTicketList+"/"+filters.Key(), querycache.TicketStaleTime,
		func(ctx context.Context) (*ticket.Page[ticket.Ticket], error) {
			return cached.client.ListTickets(ctx, filters)
		})
	return page, err
}

// ListTrashed returns a page of soft-deleted tickets.
func (cached *Cached) ListTrashed(ctx context.Context, filters ticket.Filters) (*ticket.Page[ticket.Ticket], error) {
	filters.Status = ""
	filters.Priority = ""
	page, _, err := querycache.Fetch(ctx, cached.cache, keyTrashedList+"/"+filters.Key(), querycache.TicketStaleTime,
		func(ctx context.Context) (*ticket.Page[ticket.Ticket], error) {
			return cached.client.ListTrashed(ctx, filters)
		})
	return page, err
}

// GetTicket returns one ticket.
func (cached *Cached) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	value, _, err := querycache.Fetch(ctx, cached.cache, ticketKey(id), querycache.TicketStaleTime,
		func(ctx context.Context) (*ticket.Ticket, error) {
			return cached.client.GetTicket(ctx, id)
		})
	return value, err
}

// TicketEvents returns one page of a ticket's timeline.
func (cached *Cached) TicketEvents(ctx context.Context, id int64, page, perPage int) (*ticket.Page[ticket.Event], error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	events, _, err := querycache.Fetch(ctx, cached.cache, EventsKey(id, page, perPage), querycache.EventStaleTime,
		func(ctx context.Context) (*ticket.Page[ticket.Event], error) {
			return cached.client.TicketEvents(ctx, id, page, perPage)
		})
	return events, err
}

// Summary returns the status and priority aggregates.
func (cached *Cached) Summary(ctx context.Context) (*ticket.Summary, error) {
	summary, _, err := querycache.Fetch(ctx, cached.cache, keyStats+"/summary", statsStaleTime, cached.client.Summary)
	return summary, err
}

// Backlog returns the aging aggregates.
func (cached *Cached) Backlog(ctx context.Context) (*ticket.Backlog, error) {
	backlog, _, err := querycache.Fetch(ctx, cached.cache, keyStats+"/backlog", statsStaleTime, cached.client.Backlog)
	return backlog, err
}

// Activity returns the global activity feed.
func (cached *Cached) Activity(ctx context.Context, limit int) ([]ticket.ActivityEntry, error) {
	entries, _, err := querycache.Fetch(ctx, cached.cache, fmt.Sprintf("%s/activity/%d", keyStats, limit), querycache.EventStaleTime,
		func(ctx context.Context) ([]ticket.ActivityEntry, error) {
			return cached.client.Activity(ctx, limit)
		})
	return entries, err
}

// Me returns the authenticated user.
func (cached *Cached) Me(ctx context.Context) (*ticket.User, error) {
	user, _, err := querycache.Fetch(ctx, cached.cache, keyMe, statsStaleTime, cached.client.Me)
	return user, err
}

// Revalidate refetches a ticket and the first timeline page regardless
// of freshness. It reports whether the ticket changed. The AI poller
// calls it on every tick.
func (cached *Cached) Revalidate(ctx context.Context, id int64, perPage int) (*ticket.Ticket, bool, error) {
	if id <= 0 {
		return nil, false, ErrInvalidID
	}
	cached.cache.Invalidate(ticketKey(id))
	cached.cache.Invalidate(eventsPrefix(id))

	value, result, err := querycache.Fetch(ctx, cached.cache, ticketKey(id), querycache.TicketStaleTime,
		func(ctx context.Context) (*ticket.Ticket, error) {
			return cached.client.GetTicket(ctx, id)
		})
	if err != nil {
		return nil, false, err
	}
	if result.Changed {
		cached.cache.Invalidate(keyTicketList)
		cached.cache.Invalidate(keyStats)
	}
	if _, err := cached.TicketEvents(ctx, id, 1, perPage); err != nil {
		return value, result.Changed, err
	}
	return value, result.Changed, nil
}

// CreateTicket creates a ticket and invalidates the lists and stats.
func (cached *Cached) CreateTicket(ctx context.Context, request ticket.CreateRequest) (*ticket.Ticket, error) {
	created, err := cached.client.CreateTicket(ctx, request)
	if err != nil {
		return nil, err
	}
	cached.seed(created.ID, created)
	cached.cache.Invalidate(keyTicketList)
	cached.cache.Invalidate(keyStats)
	return created, nil
}

// UpdateTicket applies an update, seeds the ticket entry with the
// response, and invalidates the lists, the ticket's timeline, and the
// stats.
func (cached *Cached) UpdateTicket(ctx context.Context, id int64, request ticket.UpdateRequest) (*ticket.Ticket, error) {
	updated, err := cached.client.UpdateTicket(ctx, id, request)
	if err != nil {
		return nil, err
	}
	cached.seed(id, updated)
	cached.cache.Invalidate(keyTicketList)
	cached.cache.Invalidate(eventsPrefix(id))
	cached.cache.Invalidate(keyStats)
	return updated, nil
}

// DeleteTicket moves a ticket to the trash and drops its entry.
func (cached *Cached) DeleteTicket(ctx context.Context, id int64) error {
	if err := cached.client.DeleteTicket(ctx, id); err != nil {
		return err
	}
	cached.cache.Remove(ticketKey(id))
	cached.cache.Invalidate(keyTicketList)
	cached.cache.Invalidate(keyTrashedList)
	cached.cache.Invalidate(keyStats)
	return nil
}

// RestoreTicket restores a trashed ticket.
func (cached *Cached) RestoreTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	restored, err := cached.client.RestoreTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	cached.seed(id, restored)
	cached.cache.Invalidate(keyTicketList)
	cached.cache.Invalidate(keyTrashedList)
	cached.cache.Invalidate(eventsPrefix(id))
	cached.cache.Invalidate(keyStats)
	return restored, nil
}

// ForceDeleteTicket permanently deletes a trashed ticket.
func (cached *Cached) ForceDeleteTicket(ctx context.Context, id int64) error {
	if err := cached.client.ForceDeleteTicket(ctx, id); err != nil {
		return err
	}
	cached.cache.Remove(ticketKey(id))
	cached.cache.Remove(eventsPrefix(id))
	cached.cache.Invalidate(keyTrashedList)
	return nil
}

// EnqueueAI enqueues an AI job and seeds the ticket entry with the
// queued status, so the job reads as in flight before the next fetch.
func (cached *Cached) EnqueueAI(ctx context.Context, id int64, job ticket.Job) (*ticket.AIJobResponse, error) {
	response, err := cached.client.EnqueueAI(ctx, id, job)
	if err != nil {
		return nil, err
	}
	cached.seed(id, &response.Data)
	cached.cache.Invalidate(keyTicketList)
	return response, nil
}

// seed stores a ticket returned by a mutation of ticket id. A
// response that is not that ticket (an unexpected empty body) is not
// stored; the entry is invalidated instead.
func (cached *Cached) seed(id int64, value *ticket.Ticket) {
	if id <= 0 {
		return
	}
	if value == nil || value.ID != id {
		cached.cache.Invalidate(ticketKey(id))
		return
	}
	if err := querycache.Set(cached.cache, ticketKey(id), value, querycache.TicketStaleTime); err != nil {
		cached.cache.Invalidate(ticketKey(id))
	}
}
