// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the time operations ticketdesk uses.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once d
	// has elapsed. If d <= 0 the channel is ready immediately.
	After(d time.Duration) <-chan time.Time

	// NewTicker returns a Ticker delivering ticks every d. Panics if
	// d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Ticker delivers periodic ticks on C, which has capacity 1: a slow
// consumer misses ticks instead of queueing them. Stop the ticker when
// it is no longer needed.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop turns off the ticker. No tick is delivered after Stop returns.
// C is not closed.
func (t *Ticker) Stop() { t.stop() }
