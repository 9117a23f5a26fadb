// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package aistatus derives display state from a ticket's three AI job
// statuses and polls the ticket while any job is in flight.
//
// The server's job system owns every status transition. This package
// only observes: [Combine] reduces the three statuses to one badge,
// [Indicator] describes a single job, [CanEnqueue] guards the generate
// action against duplicate submissions, and [Poller] revalidates the
// displayed ticket every 1.5 seconds until no job is queued or
// processing.
package aistatus
