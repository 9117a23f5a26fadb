// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package aistatus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ticketdesk/ticketdesk/lib/clock"
)

// PollInterval is how often a ticket with in-flight AI jobs is
// revalidated.
const PollInterval = 1500 * time.Millisecond

// RevalidateFunc refetches a ticket's authoritative state. The context
// is cancelled when polling for that ticket stops; implementations
// that hand results to another goroutine must select on ctx.Done()
// so a stop never waits on a blocked send.
type RevalidateFunc func(ctx context.Context, ticketID int64) error

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Clock drives the poll ticker. Required.
	Clock clock.Clock

	// Interval between revalidations. Zero means PollInterval.
	Interval time.Duration

	// Revalidate is called once per tick for the polled ticket.
	// Required.
	Revalidate RevalidateFunc

	// Logger receives revalidation failures. Nil discards them.
	Logger *slog.Logger
}

// Poller owns the single poll loop of the displayed ticket. At most
// one loop runs at a time: switching tickets stops the old loop, and
// waits for it to exit, before the new one starts.
//
// A failed revalidation is logged and polling continues with the next
// tick. Poller is safe for concurrent use, but Sync and Stop must not
// be called from inside the Revalidate callback.
type Poller struct {
	clock      clock.Clock
	interval   time.Duration
	revalidate RevalidateFunc
	logger     *slog.Logger

	mu       sync.Mutex
	ticketID int64
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewPoller creates an idle Poller.
func NewPoller(config PollerConfig) *Poller {
	interval := config.Interval
	if interval <= 0 {
		interval = PollInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{
		clock:      config.Clock,
		interval:   interval,
		revalidate: config.Revalidate,
		logger:     logger,
	}
}

// Sync reconciles the poll loop with the displayed ticket. Polling
// runs while processing is true and stops when it turns false. A
// change of ticket ID stops the previous ticket's loop first. Calls
// that change nothing are no-ops, so Sync can be called after every
// ticket refresh. Ticket IDs of zero or less never poll.
func (p *Poller) Sync(ticketID int64, processing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil && (!processing || p.ticketID != ticketID) {
		p.stopLocked()
	}
	if processing && ticketID > 0 && p.cancel == nil {
		p.startLocked(ticketID)
	}
}

// Active returns the ticket being polled, if any.
func (p *Poller) Active() (ticketID int64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return 0, false
	}
	return p.ticketID, true
}

// Stop ends polling and waits for the loop to exit. Safe to call when
// idle.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) startLocked(ticketID int64) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	// The ticker is created here rather than in the loop goroutine so
	// that it is registered by the time Sync returns.
	ticker := p.clock.NewTicker(p.interval)

	p.ticketID = ticketID
	p.cancel = cancel
	p.done = done

	p.logger.Debug("AI status polling started", "ticket_id", ticketID)
	go p.loop(ctx, ticketID, ticker, done)
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.logger.Debug("AI status polling stopped", "ticket_id", p.ticketID)
	p.ticketID = 0
	p.cancel = nil
	p.done = nil
}

func (p *Poller) loop(ctx context.Context, ticketID int64, ticker *clock.Ticker, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := p.revalidate(ctx, ticketID)
			if err != nil && ctx.Err() == nil {
				p.logger.Warn("AI status revalidation failed",
					"ticket_id", ticketID,
					"error", err,
				)
			}
		}
	}
}
