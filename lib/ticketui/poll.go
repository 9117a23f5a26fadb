// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ticketdesk/ticketdesk/lib/aistatus"
	"github.com/ticketdesk/ticketdesk/lib/clock"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/timeline"
)

// pollResultMsg carries one revalidated ticket into the update loop.
type pollResultMsg struct {
	ticketID int64
	ticket   *ticket.Ticket
	changed  bool
}

// newPollBridge creates the poller of the displayed ticket. Each tick
// revalidates through source and hands the result to the returned
// channel, which the model drains with waitForPoll. The channel holds
// one result; a tick that finds it full waits until the model reads
// or polling for that ticket stops.
func newPollBridge(source Source, clk clock.Clock, logger *slog.Logger) (*aistatus.Poller, chan pollResultMsg) {
	results := make(chan pollResultMsg, 1)
	poller := aistatus.NewPoller(aistatus.PollerConfig{
		Clock:  clk,
		Logger: logger,
		Revalidate: func(ctx context.Context, ticketID int64) error {
			current, changed, err := source.Revalidate(ctx, ticketID, timeline.PageSize)
			if current == nil {
				return err
			}
			// A fresh ticket still reaches the model when only the
			// events refetch failed; err is logged by the poller.
			select {
			case results <- pollResultMsg{ticketID: ticketID, ticket: current, changed: changed}:
			case <-ctx.Done():
			}
			return err
		},
	})
	return poller, results
}

// waitForPoll blocks until the next revalidation result.
func waitForPoll(results <-chan pollResultMsg) tea.Cmd {
	return func() tea.Msg {
		result, ok := <-results
		if !ok {
			return nil
		}
		return result
	}
}
