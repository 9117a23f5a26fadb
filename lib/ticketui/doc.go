// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketui implements the interactive terminal dashboard for
// support tickets. Built on bubbletea, it shows three tabs:
//
//   - Tickets: the server-filtered, paginated ticket list (status,
//     priority, sort, text search) with local fuzzy narrowing of the
//     loaded page, beside a detail pane for the opened ticket.
//   - Lixeira: soft-deleted tickets, with restore and permanent delete.
//   - Estatísticas: the summary, backlog and global activity feed.
//
// The detail pane renders the ticket header, the AI section (per-job
// indicators, summary and suggested reply as terminal markdown) and
// the activity timeline driven by a [timeline.Controller]. While any
// AI job of the open ticket is in flight, an [aistatus.Poller]
// revalidates it; results reach the update loop over a channel.
//
// All data goes through the [Source] interface, satisfied by
// [ticketapi.Cached]:
//
//	[support API] -> ticketapi.Client -> querycache -> ticketapi.Cached
//	        | (Source)
//	    [Model] <- bubbletea event loop
//	        |
//	  [terminal output]
package ticketui
