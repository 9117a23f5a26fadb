// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
)

var utcOptions = Options{Renderer: ticketevent.Renderer{Location: time.UTC}}

func event(id int64, createdAt string, eventType ticket.EventType) ticket.Event {
	return ticket.Event{ID: id, TicketID: 7, Type: eventType, CreatedAt: createdAt}
}

func page(current, last int, events ...ticket.Event) *ticket.Page[ticket.Event] {
	return &ticket.Page[ticket.Event]{
		Data: events,
		Meta: ticket.PaginationMeta{CurrentPage: current, LastPage: last, PerPage: PageSize, Total: len(events)},
	}
}

// fakeFetcher serves canned pages and records the queries it saw.
type fakeFetcher struct {
	pages   map[int]*ticket.Page[ticket.Event]
	err     error
	queries []Query
}

func (f *fakeFetcher) fetch(_ context.Context, query Query) (*ticket.Page[ticket.Event], error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[query.Page], nil
}

func TestDisabledForInvalidTicket(t *testing.T) {
	for _, id := range []int64{0, -1} {
		controller := New(id, utcOptions)
		if controller.State() != StateDisabled {
			t.Errorf("New(%d).State() = %v, want disabled", id, controller.State())
		}
		fetcher := &fakeFetcher{}
		if err := controller.Load(context.Background(), fetcher.fetch); err != nil {
			t.Errorf("Load on disabled controller: %v", err)
		}
		if len(fetcher.queries) != 0 {
			t.Errorf("disabled controller fetched %d times", len(fetcher.queries))
		}
	}
}

func TestLoadSortsNewestFirstByDefault(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*ticket.Page[ticket.Event]{
		1: page(1, 1,
			event(1, "2026-02-10T10:00:00Z", ticket.EventCreated),
			event(3, "2026-02-12T10:00:00Z", ticket.EventUpdated),
			event(2, "2026-02-11T10:00:00Z", ticket.EventDeleted),
		),
	}}
	controller := New(7, utcOptions)
	if err := controller.Load(context.Background(), fetcher.fetch); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if controller.State() != StateLoaded {
		t.Fatalf("State = %v, want loaded", controller.State())
	}

	query := fetcher.queries[0]
	if query.TicketID != 7 || query.Page != 1 || query.PerPage != 20 {
		t.Errorf("query = %+v, want ticket 7 page 1 per_page 20", query)
	}

	assertOrder(t, controller.Entries(), 3, 2, 1)

	controller.ToggleSort()
	if controller.SortLabel() != LabelOldestFirst {
		t.Errorf("SortLabel = %q after toggle", controller.SortLabel())
	}
	assertOrder(t, controller.Entries(), 1, 2, 3)
	if len(fetcher.queries) != 1 {
		t.Errorf("ToggleSort refetched: %d queries", len(fetcher.queries))
	}
}

func assertOrder(t *testing.T, entries []Entry, wantIDs ...int64) {
	t.Helper()
	if len(entries) != len(wantIDs) {
		t.Fatalf("%d entries, want %d", len(entries), len(wantIDs))
	}
	for index, want := range wantIDs {
		if entries[index].Event.ID != want {
			t.Errorf("entry %d is event %d, want %d", index, entries[index].Event.ID, want)
		}
		wantLast := index == len(wantIDs)-1
		if entries[index].IsLast != wantLast {
			t.Errorf("entry %d IsLast = %v, want %v", index, entries[index].IsLast, wantLast)
		}
	}
}

func TestEntriesRenderEvents(t *testing.T) {
	meta, err := ticket.ParseMeta([]byte(`{"before":"open","after":"closed"}`))
	if err != nil {
		t.Fatal(err)
	}
	statusChange := event(1, "2026-02-05T09:07:00Z", ticket.EventStatusChanged)
	statusChange.Meta = meta
	statusChange.User = &ticket.UserRef{Email: "ana@example.com"}

	controller := New(7, utcOptions)
	query, _ := controller.Request()
	controller.Resolve(query, page(1, 1, statusChange), nil)

	entries := controller.Entries()
	if len(entries) != 1 {
		t.Fatalf("%d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Formatted.Details != "Aberto → Fechado" || entry.Formatted.Category != ticketevent.CategoryClosed {
		t.Errorf("Formatted = %+v", entry.Formatted)
	}
	if entry.Meta != nil {
		t.Errorf("Meta = %+v, want nil once before/after are stripped", entry.Meta)
	}
	if entry.Author != "ana@example.com" {
		t.Errorf("Author = %q", entry.Author)
	}
	if entry.Timestamp != "05 de fev de 2026 às 09:07" {
		t.Errorf("Timestamp = %q", entry.Timestamp)
	}
}

func TestSortEventsUnparsableLast(t *testing.T) {
	events := []ticket.Event{
		event(1, "garbage", ticket.EventCreated),
		event(2, "2026-02-10T10:00:00Z", ticket.EventCreated),
		event(3, "2026-02-10T10:00:00Z", ticket.EventUpdated),
		event(4, "2026-02-11T10:00:00Z", ticket.EventCreated),
	}

	newest := SortEvents(events, true)
	wantNewest := []int64{4, 2, 3, 1}
	oldest := SortEvents(events, false)
	wantOldest := []int64{2, 3, 4, 1}
	for index := range events {
		if newest[index].ID != wantNewest[index] {
			t.Errorf("newest-first[%d] = %d, want %d", index, newest[index].ID, wantNewest[index])
		}
		if oldest[index].ID != wantOldest[index] {
			t.Errorf("oldest-first[%d] = %d, want %d", index, oldest[index].ID, wantOldest[index])
		}
	}
	if events[0].ID != 1 {
		t.Error("SortEvents modified its input")
	}
}

func TestSortEventsLenientTimestamps(t *testing.T) {
	events := []ticket.Event{
		event(1, "2026-02-10 09:00:00", ticket.EventCreated),
		event(2, "2026-02-12 10:00:00", ticket.EventUpdated),
		event(3, "2026-02-11T10:00:00", ticket.EventStatusChanged),
	}

	newest := SortEvents(events, true)
	wantNewest := []int64{2, 3, 1}
	oldest := SortEvents(events, false)
	wantOldest := []int64{1, 3, 2}
	for index := range events {
		if newest[index].ID != wantNewest[index] {
			t.Errorf("newest-first[%d] = %d, want %d", index, newest[index].ID, wantNewest[index])
		}
		if oldest[index].ID != wantOldest[index] {
			t.Errorf("oldest-first[%d] = %d, want %d", index, oldest[index].ID, wantOldest[index])
		}
	}
}

func TestEmptyAndErrorStates(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*ticket.Page[ticket.Event]{1: page(1, 1)}}
	controller := New(7, utcOptions)
	if err := controller.Load(context.Background(), fetcher.fetch); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if controller.State() != StateEmpty {
		t.Errorf("State = %v, want empty", controller.State())
	}
	if controller.Entries() != nil {
		t.Error("Entries should be nil when empty")
	}

	fetcher.err = errors.New("502 Bad Gateway")
	if err := controller.Load(context.Background(), fetcher.fetch); err == nil {
		t.Fatal("Load should return the fetch error")
	}
	if controller.State() != StateError || controller.Err() == nil {
		t.Errorf("State = %v Err = %v, want error state", controller.State(), controller.Err())
	}
	if controller.CanNext() || controller.CanPrevious() {
		t.Error("pagination should be disabled in error state")
	}

	fetcher.err = nil
	query, ok := controller.Retry()
	if !ok || controller.State() != StateLoading {
		t.Fatalf("Retry = %v, state %v", ok, controller.State())
	}
	result, err := fetcher.fetch(context.Background(), query)
	controller.Resolve(query, result, err)
	if controller.State() != StateEmpty || controller.Err() != nil {
		t.Errorf("after retry: State = %v Err = %v", controller.State(), controller.Err())
	}
}

func TestPagination(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]*ticket.Page[ticket.Event]{
		1: page(1, 2, event(1, "2026-02-10T10:00:00Z", ticket.EventCreated)),
		2: page(2, 2, event(2, "2026-02-09T10:00:00Z", ticket.EventCreated)),
	}}
	controller := New(7, utcOptions)
	if err := controller.Load(context.Background(), fetcher.fetch); err != nil {
		t.Fatal(err)
	}

	if controller.CanPrevious() {
		t.Error("CanPrevious on page 1")
	}
	if !controller.CanNext() || !controller.ShowPagination() {
		t.Error("page 1 of 2 should allow next and show pagination")
	}
	if controller.PageLabel() != "Página 1 de 2" {
		t.Errorf("PageLabel = %q", controller.PageLabel())
	}

	query, ok := controller.NextPage()
	if !ok || query.Page != 2 {
		t.Fatalf("NextPage = %+v, %v", query, ok)
	}
	result, err := fetcher.fetch(context.Background(), query)
	controller.Resolve(query, result, err)

	if controller.CanNext() {
		t.Error("CanNext on last page")
	}
	if _, ok := controller.NextPage(); ok {
		t.Error("NextPage past the last page should be refused")
	}
	if controller.Page() != 2 {
		t.Errorf("Page = %d after refused NextPage", controller.Page())
	}

	query, ok = controller.PreviousPage()
	if !ok || query.Page != 1 {
		t.Errorf("PreviousPage = %+v, %v", query, ok)
	}
}

func TestStaleResultDropped(t *testing.T) {
	controller := New(7, utcOptions)
	first, _ := controller.Request()
	second, _ := controller.Request()

	if controller.Resolve(first, page(1, 1, event(1, "2026-02-10T10:00:00Z", ticket.EventCreated)), nil) {
		t.Error("Resolve accepted a superseded query")
	}
	if controller.State() != StateLoading {
		t.Errorf("State = %v after stale result, want loading", controller.State())
	}
	if !controller.Resolve(second, page(1, 1), nil) {
		t.Error("Resolve rejected the current query")
	}
}

func TestSetTicketInvalidatesOutstandingRequest(t *testing.T) {
	controller := New(7, utcOptions)
	query, _ := controller.Request()

	controller.SetTicket(9)
	if controller.Resolve(query, page(1, 1), nil) {
		t.Error("result for ticket 7 applied after switching to ticket 9")
	}
	if controller.Page() != 1 || controller.TicketID() != 9 {
		t.Errorf("after SetTicket: page %d ticket %d", controller.Page(), controller.TicketID())
	}

	controller.SetTicket(0)
	if controller.State() != StateDisabled {
		t.Errorf("State = %v after SetTicket(0), want disabled", controller.State())
	}
	if _, ok := controller.Request(); ok {
		t.Error("Request should be refused while disabled")
	}
}

func TestSortOrderSurvivesTicketChange(t *testing.T) {
	controller := New(7, utcOptions)
	controller.ToggleSort()
	controller.SetTicket(9)
	if controller.NewestFirst() {
		t.Error("SetTicket reset the sort order")
	}
}
