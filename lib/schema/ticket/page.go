// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"net/url"
	"strconv"
)

// Page is a paginated list response.
type Page[T any] struct {
	Data  []T             `json:"data"`
	Links PaginationLinks `json:"links"`
	Meta  PaginationMeta  `json:"meta"`
}

// PaginationLinks holds the navigation URLs of a page. Absent links
// (first page has no prev) are empty.
type PaginationLinks struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// PaginationMeta describes where a page sits in the full result set.
// From and To are zero for an empty page.
type PaginationMeta struct {
	CurrentPage int    `json:"current_page"`
	From        int    `json:"from,omitempty"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path,omitempty"`
	PerPage     int    `json:"per_page"`
	To          int    `json:"to,omitempty"`
	Total       int    `json:"total"`
}

// HasPrevious reports whether a page exists before this one.
func (m PaginationMeta) HasPrevious() bool {
	return m.CurrentPage > 1
}

// HasNext reports whether a page exists after this one.
func (m PaginationMeta) HasNext() bool {
	return m.CurrentPage < m.LastPage
}

// Sort orders for ticket lists. A leading minus sorts descending.
const (
	SortNewest       = "-created_at"
	SortOldest       = "created_at"
	SortPriorityDesc = "-priority"
	SortPriorityAsc  = "priority"
	SortStatus       = "status"
)

// SortOrders lists the accepted sort values, default first.
var SortOrders = []string{SortNewest, SortOldest, SortPriorityDesc, SortPriorityAsc, SortStatus}

// Filters are the query parameters of GET /api/tickets. Zero fields
// are omitted from the query string and take the server's defaults.
type Filters struct {
	Page     int      `json:"page,omitempty"`
	PerPage  int      `json:"per_page,omitempty"`
	Status   Status   `json:"status,omitempty"`
	Priority Priority `json:"priority,omitempty"`
	Query    string   `json:"q,omitempty"`
	Sort     string   `json:"sort,omitempty"`
}

// Values encodes the filters as URL query parameters.
func (f Filters) Values() url.Values {
	values := url.Values{}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		values.Set("priority", string(f.Priority))
	}
	if f.Query != "" {
		values.Set("q", f.Query)
	}
	if f.Sort != "" {
		values.Set("sort", f.Sort)
	}
	return values
}

// Key returns a stable string identifying this filter combination,
// used as part of cache keys.
func (f Filters) Key() string {
	return f.Values().Encode()
}

// ValidSort reports whether sort is empty (server default) or one of
// SortOrders.
func ValidSort(sort string) bool {
	if sort == "" {
		return true
	}
	for _, known := range SortOrders {
		if sort == known {
			return true
		}
	}
	return false
}
