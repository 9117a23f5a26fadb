// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"context"
	"fmt"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
)

// PageSize is the number of events fetched per page.
const PageSize = 20

// User-facing text of the timeline states and controls.
const (
	EmptyTitle       = "Sem atividade ainda"
	EmptyHint        = "As atividades do ticket aparecerão aqui."
	ErrorTitle       = "Erro ao carregar atividades"
	RetryLabel       = "Tentar novamente"
	LabelNewestFirst = "Mais recentes primeiro"
	LabelOldestFirst = "Mais antigos primeiro"
)

// State is the mutually exclusive fetch state of the timeline.
type State int

const (
	// StateDisabled: no valid ticket ID, nothing is fetched.
	StateDisabled State = iota
	StateLoading
	StateError
	StateEmpty
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Query identifies one page fetch.
type Query struct {
	TicketID int64
	Page     int
	PerPage  int

	// sequence ties a result to the request that produced it.
	sequence uint64
}

// FetchFunc retrieves one page of a ticket's events.
type FetchFunc func(ctx context.Context, query Query) (*ticket.Page[ticket.Event], error)

// Controller holds the timeline state of one ticket. It is not safe
// for concurrent use; the owner serializes calls (the viewer's update
// loop, or the CLI's single goroutine).
type Controller struct {
	ticketID    int64
	page        int
	newestFirst bool
	options     Options

	state    State
	err      error
	events   []ticket.Event
	meta     ticket.PaginationMeta
	sequence uint64
}

// New creates a controller for ticketID on page 1, newest first. The
// controller starts Disabled if ticketID <= 0 and Loading otherwise;
// call Request or Load to issue the first fetch.
func New(ticketID int64, options Options) *Controller {
	controller := &Controller{newestFirst: true, options: options}
	controller.reset(ticketID)
	return controller
}

// SetTicket switches the controller to another ticket, returning to
// page 1 and discarding loaded events. Sort order is kept. Any
// outstanding request is invalidated.
func (c *Controller) SetTicket(ticketID int64) {
	if ticketID == c.ticketID {
		return
	}
	c.reset(ticketID)
}

func (c *Controller) reset(ticketID int64) {
	c.ticketID = ticketID
	c.page = 1
	c.err = nil
	c.events = nil
	c.meta = ticket.PaginationMeta{}
	c.sequence++
	if ticketID <= 0 {
		c.state = StateDisabled
	} else {
		c.state = StateLoading
	}
}

// TicketID returns the ticket whose timeline this is.
func (c *Controller) TicketID() int64 { return c.ticketID }

// Request marks the current page as loading and returns the query to
// fetch. Returns false when the controller is disabled.
func (c *Controller) Request() (Query, bool) {
	if c.ticketID <= 0 {
		c.state = StateDisabled
		return Query{}, false
	}
	c.sequence++
	c.state = StateLoading
	c.err = nil
	return Query{
		TicketID: c.ticketID,
		Page:     c.page,
		PerPage:  PageSize,
		sequence: c.sequence,
	}, true
}

// Resolve applies the result of a fetch. A result for any query other
// than the most recent Request is ignored and Resolve returns false.
// On error the controller enters StateError and keeps the error; the
// previously loaded page is discarded.
func (c *Controller) Resolve(query Query, page *ticket.Page[ticket.Event], err error) bool {
	if query.sequence != c.sequence || query.TicketID != c.ticketID || c.state != StateLoading {
		return false
	}
	if err == nil && page == nil {
		err = fmt.Errorf("empty response for ticket %d events page %d", query.TicketID, query.Page)
	}
	if err != nil {
		c.state = StateError
		c.err = err
		c.events = nil
		c.meta = ticket.PaginationMeta{}
		return true
	}

	c.err = nil
	c.events = page.Data
	c.meta = page.Meta
	if page.Meta.CurrentPage > 0 {
		c.page = page.Meta.CurrentPage
	}
	if len(page.Data) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StateLoaded
	}
	return true
}

// Load requests the current page and fetches it synchronously.
// Returns the fetch error, which also leaves the controller in
// StateError. A disabled controller returns nil without fetching.
func (c *Controller) Load(ctx context.Context, fetch FetchFunc) error {
	query, ok := c.Request()
	if !ok {
		return nil
	}
	page, err := fetch(ctx, query)
	c.Resolve(query, page, err)
	return err
}

// Retry re-issues the fetch of the current page. Errors are never
// retried automatically; this is the manual path.
func (c *Controller) Retry() (Query, bool) {
	return c.Request()
}

// NextPage advances one page and returns the query to fetch. Returns
// false, changing nothing, on the last page or while no page is
// loaded.
func (c *Controller) NextPage() (Query, bool) {
	if !c.CanNext() {
		return Query{}, false
	}
	c.page++
	return c.Request()
}

// PreviousPage goes back one page. Returns false on page 1 or while
// no page is loaded.
func (c *Controller) PreviousPage() (Query, bool) {
	if !c.CanPrevious() {
		return Query{}, false
	}
	c.page--
	return c.Request()
}

// GoToPage jumps to page n (1-based) and returns the query to fetch.
func (c *Controller) GoToPage(n int) (Query, bool) {
	if n < 1 {
		n = 1
	}
	c.page = n
	return c.Request()
}

// ToggleSort flips between newest-first and oldest-first. The loaded
// page is reordered in place; nothing is refetched.
func (c *Controller) ToggleSort() {
	c.newestFirst = !c.newestFirst
}

// SetNewestFirst sets the sort order.
func (c *Controller) SetNewestFirst(newestFirst bool) {
	c.newestFirst = newestFirst
}

// NewestFirst reports the current sort order.
func (c *Controller) NewestFirst() bool { return c.newestFirst }

// SortLabel returns the label of the current sort order.
func (c *Controller) SortLabel() string {
	if c.newestFirst {
		return LabelNewestFirst
	}
	return LabelOldestFirst
}

// State returns the current fetch state.
func (c *Controller) State() State { return c.state }

// Err returns the error of a failed fetch, or nil.
func (c *Controller) Err() error { return c.err }

// Page returns the current page number.
func (c *Controller) Page() int { return c.page }

// LastPage returns the last page reported by the server, or 0 when
// nothing is loaded.
func (c *Controller) LastPage() int { return c.meta.LastPage }

// Total returns the total number of events reported by the server.
func (c *Controller) Total() int { return c.meta.Total }

// CanPrevious reports whether a previous page exists.
func (c *Controller) CanPrevious() bool {
	return c.hasPage() && c.meta.HasPrevious()
}

// CanNext reports whether a next page exists.
func (c *Controller) CanNext() bool {
	return c.hasPage() && c.meta.HasNext()
}

// ShowPagination reports whether pagination controls are worth
// showing: only once a page is loaded and there is more than one.
func (c *Controller) ShowPagination() bool {
	return c.hasPage() && c.meta.LastPage > 1
}

// PageLabel returns "Página X de Y".
func (c *Controller) PageLabel() string {
	return fmt.Sprintf("Página %d de %d", c.meta.CurrentPage, c.meta.LastPage)
}

func (c *Controller) hasPage() bool {
	return c.state == StateLoaded || c.state == StateEmpty
}
