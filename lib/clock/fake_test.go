// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	if got, want := clock.Now(), epoch.Add(5*time.Second); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfter(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(3 * time.Second)

	clock.Advance(2 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	clock.Advance(time.Second)
	select {
	case fired := <-channel:
		if want := epoch.Add(3 * time.Second); !fired.Equal(want) {
			t.Errorf("fired at %v, want %v", fired, want)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount = %d after firing, want 0", clock.PendingCount())
	}
}

func TestFakeClockAfterNonPositive(t *testing.T) {
	clock := Fake(epoch)
	for _, d := range []time.Duration{0, -time.Second} {
		select {
		case <-clock.After(d):
		default:
			t.Errorf("After(%v) should be ready immediately", d)
		}
	}
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount = %d, want 0", clock.PendingCount())
	}
}

func TestFakeClockTicker(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(1500 * time.Millisecond)

	for tick := 1; tick <= 3; tick++ {
		clock.Advance(1500 * time.Millisecond)
		select {
		case <-ticker.C:
		default:
			t.Fatalf("tick %d not delivered", tick)
		}
	}

	ticker.Stop()
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount after Stop = %d, want 0", clock.PendingCount())
	}
	clock.Advance(time.Minute)
	select {
	case <-ticker.C:
		t.Error("stopped ticker delivered a tick")
	default:
	}
}

func TestFakeClockTickerDropsWhenFull(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(time.Second)
	defer ticker.Stop()

	clock.Advance(5 * time.Second)

	<-ticker.C
	select {
	case <-ticker.C:
		t.Error("ticker channel should hold at most one tick")
	default:
	}
}

func TestFakeClockFiresInDeadlineOrder(t *testing.T) {
	clock := Fake(epoch)
	late := clock.After(2 * time.Second)
	early := clock.After(time.Second)

	clock.Advance(3 * time.Second)

	if got := <-early; !got.Equal(epoch.Add(time.Second)) {
		t.Errorf("early fired at %v", got)
	}
	if got := <-late; !got.Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("late fired at %v", got)
	}
}

func TestWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	registered := make(chan struct{})
	go func() {
		<-clock.After(time.Second)
		close(registered)
	}()

	clock.WaitForTimers(1)
	clock.Advance(time.Second)

	select {
	case <-registered:
	case <-time.After(5 * time.Second):
		t.Fatal("goroutine did not observe the fired timer")
	}
}

func TestWaitForTimersAtMost(t *testing.T) {
	clock := Fake(epoch)
	ticker := clock.NewTicker(time.Second)

	done := make(chan struct{})
	go func() {
		clock.WaitForTimersAtMost(0)
		close(done)
	}()

	ticker.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForTimersAtMost did not return after Stop")
	}
}

func TestRealClockTicker(t *testing.T) {
	ticker := Real().NewTicker(time.Millisecond)
	defer ticker.Stop()
	select {
	case <-ticker.C:
	case <-time.After(5 * time.Second):
		t.Fatal("real ticker never ticked")
	}
}
