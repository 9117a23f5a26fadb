// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that waits or ticks (the AI status poller, the query cache's
// staleness checks, relative timestamps in the viewer) takes a Clock
// instead of calling the time package directly. Production code passes
// Real(). Tests pass Fake(), whose time moves only when Advance is
// called:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	poller := aistatus.NewPoller(aistatus.PollerConfig{Clock: fake, ...})
//	poller.Sync(7, true)
//	fake.WaitForTimers(1)             // the poll loop registered its ticker
//	fake.Advance(1500 * time.Millisecond)
//
// WaitForTimers removes the race between a goroutine registering a
// timer and the test advancing past it.
package clock
