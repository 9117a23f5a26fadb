// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ticketdesk/ticketdesk/cmd/ticketdesk/cli"
	"github.com/ticketdesk/ticketdesk/lib/aistatus"
	"github.com/ticketdesk/ticketdesk/lib/clock"
	"github.com/ticketdesk/ticketdesk/lib/schema/ticket"
	"github.com/ticketdesk/ticketdesk/lib/ticketapi"
	"github.com/ticketdesk/ticketdesk/lib/ticketevent"
	"github.com/ticketdesk/ticketdesk/lib/timeline"
)

func aiCommand() *cli.Command {
	command := &cli.Command{
		Name:    "ai",
		Summary: "Run AI jobs on a ticket",
		Description: `Queue one of the AI jobs of a ticket. The server runs jobs in the
background; --wait polls the ticket until the job finishes and prints
its result.`,
		Usage: "ticketdesk ai <summary|reply|priority> <ticket-id> [flags]",
	}
	for _, job := range ticket.Jobs {
		command.Subcommands = append(command.Subcommands, aiJobCommand(job))
	}
	return command
}

type aiParams struct {
	Connection
	cli.JSONOutput
	Wait     bool          `json:"wait"     flag:"wait,w"   desc:"wait for the job to finish"`
	Timeout  time.Duration `json:"timeout"  flag:"timeout"  desc:"how long --wait waits" default:"2m"`
	Interval time.Duration `json:"interval" flag:"interval" desc:"poll interval of --wait" default:"1.5s"`
}

var aiJobSummaries = map[ticket.Job]string{
	ticket.JobSummary:  "Summarize the ticket",
	ticket.JobReply:    "Draft a reply to the requester",
	ticket.JobPriority: "Suggest a priority",
}

func aiJobCommand(job ticket.Job) *cli.Command {
	var params aiParams
	usage := fmt.Sprintf("ticketdesk ai %s <ticket-id> [flags]", job)

	return &cli.Command{
		Name:    string(job),
		Summary: aiJobSummaries[job],
		Usage:   usage,
		Examples: []cli.Example{
			{Description: "Queue and wait for the result", Command: fmt.Sprintf("ticketdesk ai %s 42 --wait", job)},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			id, err := parseTicketID(args, usage)
			if err != nil {
				return err
			}
			if params.Timeout <= 0 || params.Interval <= 0 {
				return cli.Validation("--timeout and --interval must be positive")
			}
			s, err := params.connect(logger)
			if err != nil {
				return err
			}
			defer s.Close()

			action := fmt.Sprintf("queue AI %s for ticket %d", job, id)
			response, err := s.cached.EnqueueAI(ctx, id, job)
			switch {
			case err == nil:
				logger.Info("AI job queued", "ticket", id, "job", job, "status", response.Meta.Status)
			case params.Wait && ticketapi.IsConflict(err):
				logger.Info("AI job already in flight, waiting", "ticket", id, "job", job)
			default:
				return cli.FromAPIError(action, err)
			}

			if !params.Wait {
				if done, err := params.EmitJSON(response); done {
					return err
				}
				fmt.Fprintf(cli.Stdout, "queued AI %s for ticket #%d\n", job, id)
				return nil
			}

			final, err := waitForJob(ctx, s.cached, id, job, params.Interval, params.Timeout, logger)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(final); done {
				return err
			}
			writeJobResult(cli.Stdout, final, job)
			if final.JobStatus(job) == ticket.JobStatusFailed {
				return cli.JobFailed(final, job)
			}
			return nil
		},
	}
}

// waitForJob polls ticket id until job leaves the queued and
// processing states, returning the ticket as last fetched.
func waitForJob(ctx context.Context, cached *ticketapi.Cached, id int64, job ticket.Job, interval, timeout time.Duration, logger *slog.Logger) (*ticket.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	finished := make(chan *ticket.Ticket, 1)
	poller := aistatus.NewPoller(aistatus.PollerConfig{
		Clock:    clock.Real(),
		Interval: interval,
		Logger:   logger,
		Revalidate: func(ctx context.Context, ticketID int64) error {
			current, _, err := cached.Revalidate(ctx, ticketID, timeline.PageSize)
			if current == nil {
				return err
			}
			if !aistatus.IsProcessing(current.JobStatus(job)) {
				select {
				case finished <- current:
				case <-ctx.Done():
				default:
				}
			}
			return err
		},
	})
	poller.Sync(id, true)
	defer poller.Stop()

	select {
	case current := <-finished:
		return current, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, cli.Transient("AI %s for ticket %d still running after %s", job, id, timeout).
				WithHint(fmt.Sprintf("Check later with \"ticketdesk show %d\".", id))
		}
		return nil, ctx.Err()
	}
}

// writeJobResult prints what a finished job produced.
func writeJobResult(w io.Writer, current *ticket.Ticket, job ticket.Job) {
	status := current.JobStatus(job)
	fmt.Fprintf(w, "AI %s for ticket #%d: %s\n", job, current.ID, aistatus.Indicator(status).Label)
	if status == ticket.JobStatusFailed {
		if current.AILastError != "" {
			fmt.Fprintf(w, "  %s\n", current.AILastError)
		}
		return
	}
	switch job {
	case ticket.JobSummary:
		writeSection(w, "AI summary", current.AISummary)
	case ticket.JobReply:
		writeSection(w, "Suggested reply", current.AISuggestedReply)
	case ticket.JobPriority:
		fmt.Fprintf(w, "Priority: %s\n", ticketevent.PriorityLabel(current.Priority))
	}
}
