// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial. FakeClock is safe for
// concurrent use.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{now: initial}
	clock.changed = sync.NewCond(&clock.mu)
	return clock
}

// FakeClock is a Clock whose time moves only when Advance is called.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	changed *sync.Cond
}

// fakeTimer is a pending After channel or ticker.
type fakeTimer struct {
	deadline time.Time
	channel  chan time.Time

	// period is non-zero for tickers, which are rescheduled after
	// each firing instead of removed.
	period time.Duration
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After registers a one-shot timer. If d <= 0 the returned channel is
// ready immediately and nothing is registered.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.now
		return channel
	}
	c.addLocked(&fakeTimer{deadline: c.now.Add(d), channel: channel})
	return channel
}

// NewTicker registers a periodic timer.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{
		deadline: c.now.Add(d),
		channel:  make(chan time.Time, 1),
		period:   d,
	}
	c.addLocked(timer)
	return &Ticker{
		C: timer.channel,
		stop: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.removeLocked(timer)
		},
	}
}

// Advance moves the clock forward by d, firing every timer whose
// deadline is reached in deadline order. A ticker whose period fits
// more than once into d fires once per period; ticks beyond the
// channel's capacity are dropped, as with time.Ticker.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.now.Add(d)
	for {
		next := c.nextDueLocked(target)
		if next == nil {
			break
		}
		c.now = next.deadline
		select {
		case next.channel <- c.now:
		default:
		}
		if next.period > 0 {
			next.deadline = next.deadline.Add(next.period)
		} else {
			c.removeLocked(next)
		}
	}
	c.now = target
}

// WaitForTimers blocks until at least n timers are pending.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.timers) < n {
		c.changed.Wait()
	}
}

// WaitForTimersAtMost blocks until at most n timers are pending. Use
// it to observe a goroutine stopping its ticker.
func (c *FakeClock) WaitForTimersAtMost(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.timers) > n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of registered timers and tickers.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *FakeClock) addLocked(timer *fakeTimer) {
	c.timers = append(c.timers, timer)
	c.changed.Broadcast()
}

func (c *FakeClock) removeLocked(timer *fakeTimer) {
	index := slices.Index(c.timers, timer)
	if index < 0 {
		return
	}
	c.timers = slices.Delete(c.timers, index, index+1)
	c.changed.Broadcast()
}

// nextDueLocked returns the timer with the earliest deadline at or
// before target, or nil. Ties go to the earlier-registered timer.
func (c *FakeClock) nextDueLocked(target time.Time) *fakeTimer {
	var earliest *fakeTimer
	for _, timer := range c.timers {
		if timer.deadline.After(target) {
			continue
		}
		if earliest == nil || timer.deadline.Before(earliest.deadline) {
			earliest = timer
		}
	}
	return earliest
}
