// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// ListTickets returns one page of active tickets matching filters.
func (client *Client) ListTickets(ctx context.Context, filters ticket.Filters) (*ticket.Page[ticket.Ticket], error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	var page ticket.Page[ticket.Ticket]
	if err := client.do(ctx, http.MethodGet, "/api/tickets", requestOptions{query: filters.Values()}, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListTrashed returns one page of soft-deleted tickets. The trash
// endpoint ignores status and priority filters, so they are not sent.
func (client *Client) ListTrashed(ctx context.Context, filters ticket.Filters) (*ticket.Page[ticket.Ticket], error) {
	filters.Status = ""
	filters.Priority = ""
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	var page ticket.Page[ticket.Ticket]
	if err := client.do(ctx, http.MethodGet, "/api/tickets/trashed", requestOptions{query: filters.Values()}, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTicket returns one ticket.
func (client *Client) GetTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	path, err := ticketPath(id, "")
	if err != nil {
		return nil, err
	}
	return getData[ticket.Ticket](ctx, client, path, requestOptions{})
}

// CreateTicket validates request and creates a ticket. The server
// enqueues AI jobs for new tickets, so the returned ticket usually has
// queued AI statuses.
func (client *Client) CreateTicket(ctx context.Context, request ticket.CreateRequest) (*ticket.Ticket, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	var created envelope[ticket.Ticket]
	if err := client.do(ctx, http.MethodPost, "/api/tickets", requestOptions{}, request, &created); err != nil {
		return nil, err
	}
	return &created.Data, nil
}

// UpdateTicket applies a partial update. Only non-nil fields of
// request are sent.
func (client *Client) UpdateTicket(ctx context.Context, id int64, request ticket.UpdateRequest) (*ticket.Ticket, error) {
	path, err := ticketPath(id, "")
	if err != nil {
		return nil, err
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	var updated envelope[ticket.Ticket]
	if err := client.do(ctx, http.MethodPatch, path, requestOptions{}, request, &updated); err != nil {
		return nil, err
	}
	return &updated.Data, nil
}

// DeleteTicket moves a ticket to the trash.
func (client *Client) DeleteTicket(ctx context.Context, id int64) error {
	path, err := ticketPath(id, "")
	if err != nil {
		return err
	}
	return client.do(ctx, http.MethodDelete, path, requestOptions{}, nil, nil)
}

// RestoreTicket brings a trashed ticket back and returns it.
func (client *Client) RestoreTicket(ctx context.Context, id int64) (*ticket.Ticket, error) {
	path, err := ticketPath(id, "/restore")
	if err != nil {
		return nil, err
	}
	var restored envelope[ticket.Ticket]
	if err := client.do(ctx, http.MethodPost, path, requestOptions{}, nil, &restored); err != nil {
		return nil, err
	}
	return &restored.Data, nil
}

// ForceDeleteTicket permanently deletes a trashed ticket.
func (client *Client) ForceDeleteTicket(ctx context.Context, id int64) error {
	path, err := ticketPath(id, "/force")
	if err != nil {
		return err
	}
	return client.do(ctx, http.MethodDelete, path, requestOptions{}, nil, nil)
}

// EnqueueAI asks the server to run an AI job for a ticket. The
// response carries the ticket with the job's status set to queued.
func (client *Client) EnqueueAI(ctx context.Context, id int64, job ticket.Job) (*ticket.AIJobResponse, error) {
	if _, err := ticket.ParseJob(string(job)); err != nil {
		return nil, err
	}
	path, err := ticketPath(id, "/"+job.Endpoint())
	if err != nil {
		return nil, err
	}
	var response ticket.AIJobResponse
	if err := client.do(ctx, http.MethodPost, path, requestOptions{}, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// TicketEvents returns one page of a ticket's activity timeline. Zero
// page or perPage leaves the server default.
func (client *Client) TicketEvents(ctx context.Context, id int64, page, perPage int) (*ticket.Page[ticket.Event], error) {
	path, err := ticketPath(id, "/activity")
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	if perPage > 0 {
		query.Set("per_page", strconv.Itoa(perPage))
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	var events ticket.Page[ticket.Event]
	if err := client.do(ctx, http.MethodGet, path, requestOptions{query: query}, nil, &events); err != nil {
		return nil, err
	}
	return &events, nil
}

// Me returns the authenticated user. The request bypasses any HTTP
// caches so a token change is reflected immediately.
func (client *Client) Me(ctx context.Context) (*ticket.User, error) {
	return getData[ticket.User](ctx, client, "/api/auth/me", requestOptions{noCache: true})
}

func validateFilters(filters ticket.Filters) error {
	if filters.Status != "" && !filters.Status.Valid() {
		return fmt.Errorf("unknown status filter %q", filters.Status)
	}
	if filters.Priority != "" && !filters.Priority.Valid() {
		return fmt.Errorf("unknown priority filter %q", filters.Priority)
	}
	if !ticket.ValidSort(filters.Sort) {
		return fmt.Errorf("unknown sort order %q", filters.Sort)
	}
	if filters.Page < 0 || filters.PerPage < 0 {
		return fmt.Errorf("page and per_page must not be negative")
	}
	return nil
}
