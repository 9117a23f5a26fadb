// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package aistatus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ticketdesk/ticketdesk/lib/clock"
)

// recordingRevalidator reports each revalidated ticket ID on a channel
// and fails the calls listed in failures.
type recordingRevalidator struct {
	calls    chan int64
	failures map[int]bool
	count    int
}

func newRecordingRevalidator() *recordingRevalidator {
	return &recordingRevalidator{calls: make(chan int64, 16), failures: map[int]bool{}}
}

func (r *recordingRevalidator) revalidate(ctx context.Context, ticketID int64) error {
	r.count++
	select {
	case r.calls <- ticketID:
	case <-ctx.Done():
		return ctx.Err()
	}
	if r.failures[r.count] {
		return errors.New("connection refused")
	}
	return nil
}

func (r *recordingRevalidator) expectCall(t *testing.T, want int64) {
	t.Helper()
	select {
	case got := <-r.calls:
		if got != want {
			t.Fatalf("revalidated ticket %d, want %d", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for revalidation of ticket %d", want)
	}
}

func (r *recordingRevalidator) expectNoCall(t *testing.T) {
	t.Helper()
	select {
	case got := <-r.calls:
		t.Fatalf("unexpected revalidation of ticket %d", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func newTestPoller(t *testing.T) (*Poller, *clock.FakeClock, *recordingRevalidator) {
	t.Helper()
	fake := clock.Fake(time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC))
	recorder := newRecordingRevalidator()
	poller := NewPoller(PollerConfig{Clock: fake, Revalidate: recorder.revalidate})
	t.Cleanup(poller.Stop)
	return poller, fake, recorder
}

func assertPolling(t *testing.T, poller *Poller, fake *clock.FakeClock, wantTicket int64) {
	t.Helper()
	if pending := fake.PendingCount(); pending != 1 {
		t.Fatalf("%d timers pending, want exactly 1", pending)
	}
	ticketID, ok := poller.Active()
	if !ok || ticketID != wantTicket {
		t.Fatalf("Active() = (%d, %v), want (%d, true)", ticketID, ok, wantTicket)
	}
}

func assertIdle(t *testing.T, poller *Poller, fake *clock.FakeClock) {
	t.Helper()
	if pending := fake.PendingCount(); pending != 0 {
		t.Fatalf("%d timers pending, want 0", pending)
	}
	if ticketID, ok := poller.Active(); ok {
		t.Fatalf("Active() = %d, want idle", ticketID)
	}
}

func TestPollerFollowsProcessingAndTicketChanges(t *testing.T) {
	poller, fake, recorder := newTestPoller(t)

	poller.Sync(7, true)
	assertPolling(t, poller, fake, 7)
	fake.Advance(PollInterval)
	recorder.expectCall(t, 7)

	poller.Sync(7, false)
	assertIdle(t, poller, fake)
	fake.Advance(PollInterval)
	recorder.expectNoCall(t)

	poller.Sync(7, true)
	assertPolling(t, poller, fake, 7)

	poller.Sync(9, true)
	assertPolling(t, poller, fake, 9)
	fake.Advance(PollInterval)
	recorder.expectCall(t, 9)

	poller.Sync(9, false)
	assertIdle(t, poller, fake)
}

func TestPollerSyncIsEdgeTriggered(t *testing.T) {
	poller, fake, recorder := newTestPoller(t)

	poller.Sync(7, true)
	fake.Advance(PollInterval / 2)
	// A repeated Sync with the same state must not restart the
	// ticker, or the half interval already elapsed would be lost.
	poller.Sync(7, true)
	assertPolling(t, poller, fake, 7)

	fake.Advance(PollInterval / 2)
	recorder.expectCall(t, 7)
}

func TestPollerContinuesAfterFailure(t *testing.T) {
	poller, fake, recorder := newTestPoller(t)
	recorder.failures[1] = true

	poller.Sync(7, true)
	fake.Advance(PollInterval)
	recorder.expectCall(t, 7)
	fake.Advance(PollInterval)
	recorder.expectCall(t, 7)
	assertPolling(t, poller, fake, 7)
}

func TestPollerIgnoresInvalidTicket(t *testing.T) {
	poller, fake, _ := newTestPoller(t)

	poller.Sync(0, true)
	assertIdle(t, poller, fake)
	poller.Sync(-3, true)
	assertIdle(t, poller, fake)
}

func TestPollerStopCancelsInFlightRevalidation(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC))
	started := make(chan struct{})
	cancelled := make(chan struct{})
	poller := NewPoller(PollerConfig{
		Clock: fake,
		Revalidate: func(ctx context.Context, ticketID int64) error {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return ctx.Err()
		},
	})

	poller.Sync(7, true)
	fake.Advance(PollInterval)
	<-started

	poller.Stop()
	select {
	case <-cancelled:
	default:
		t.Fatal("Stop returned before the in-flight revalidation observed cancellation")
	}
	if fake.PendingCount() != 0 {
		t.Errorf("%d timers pending after Stop", fake.PendingCount())
	}
}

func TestPollerStopWhenIdle(t *testing.T) {
	poller, fake, _ := newTestPoller(t)
	poller.Stop()
	poller.Stop()
	assertIdle(t, poller, fake)
}
