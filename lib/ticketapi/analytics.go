// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// DefaultActivityLimit is the number of global feed entries requested
// when the caller passes zero.
const DefaultActivityLimit = 50

// Summary returns ticket counts by status and priority, recent
// closures, and the average time to close.
func (client *Client) Summary(ctx context.Context) (*ticket.Summary, error) {
	return getData[ticket.Summary](ctx, client, "/api/tickets/summary", requestOptions{})
}

// Backlog returns aging counts of open tickets and the oldest ones.
func (client *Client) Backlog(ctx context.Context) (*ticket.Backlog, error) {
	return getData[ticket.Backlog](ctx, client, "/api/tickets/backlog", requestOptions{})
}

// Activity returns the most recent entries of the global activity
// feed, newest first.
func (client *Client) Activity(ctx context.Context, limit int) ([]ticket.ActivityEntry, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	query := url.Values{"per_page": {strconv.Itoa(limit)}}
	entries, err := getData[[]ticket.ActivityEntry](ctx, client, "/api/tickets/activity", requestOptions{query: query})
	if err != nil {
		return nil, err
	}
	return *entries, nil
}
