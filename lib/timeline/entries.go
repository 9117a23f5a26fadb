// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"slices"
	"time"

	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
)

// Options configure how entries are rendered.
type Options struct {
	// Renderer formats metadata values and timestamps. The zero value
	// uses the local time zone.
	Renderer ticketevent.Renderer
}

// Entry is one rendered event of the timeline.
type Entry struct {
	Event     ticket.Event
	Formatted ticketevent.Formatted

	// Meta is the rendered metadata, nil when there is nothing to
	// disclose.
	Meta *ticketevent.MetaBlock

	// Author is the actor's name or email, or "Sistema".
	Author string

	// Timestamp is the event time as "12 de fev de 2026 às 10:00", or
	// the raw value if it does not parse.
	Timestamp string

	// IsLast marks the final entry in display order, which has no
	// connector below it.
	IsLast bool
}

// Entries returns the loaded page in display order, each event run
// through the formatter and metadata renderer. Returns nil unless the
// controller is in StateLoaded.
func (c *Controller) Entries() []Entry {
	if c.state != StateLoaded {
		return nil
	}
	ordered := SortEvents(c.events, c.newestFirst)
	renderer := c.options.Renderer
	entries := make([]Entry, len(ordered))
	for index, event := range ordered {
		entries[index] = Entry{
			Event:     event,
			Formatted: ticketevent.Format(event.Type, event.Meta),
			Meta:      renderer.RenderMeta(event.Meta, event.Type),
			Author:    event.Author(ticketevent.SystemAuthor),
			Timestamp: renderer.Timestamp(event.CreatedAt),
			IsLast:    index == len(ordered)-1,
		}
	}
	return entries
}

// SortEvents returns a copy of events ordered by created_at. The sort
// is stable, so events with equal timestamps keep the server's order.
// Timestamps parse as leniently as they display. Events whose
// timestamp does not parse go last in either direction.
func SortEvents(events []ticket.Event, newestFirst bool) []ticket.Event {
	type keyed struct {
		event  ticket.Event
		at     time.Time
		parsed bool
	}
	items := make([]keyed, len(events))
	for index, event := range events {
		at, ok := ticketevent.ParseTime(event.CreatedAt)
		items[index] = keyed{event: event, at: at, parsed: ok}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case !a.parsed && !b.parsed:
			return 0
		case !a.parsed:
			return 1
		case !b.parsed:
			return -1
		}
		order := a.at.Compare(b.at)
		if newestFirst {
			return -order
		}
		return order
	})

	sorted := make([]ticket.Event, len(items))
	for index, item := range items {
		sorted[index] = item.event
	}
	return sorted
}
