// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket defines the wire types of the ticketing REST API:
// tickets and their AI job statuses, per-ticket activity events with
// their ordered metadata, pagination envelopes, list filters, mutation
// requests, and the read-only analytics aggregates (summary, backlog,
// global activity feed).
//
// All timestamps are ISO-8601 strings exactly as the server sent them.
// Parsing happens at the point of display so that a malformed value
// degrades to its raw text instead of failing the whole response.
// Nullable server fields decode to the zero value of their Go type; the
// zero value is never a legal non-null value for any of them (IDs start
// at 1, enums are non-empty codes).
package ticket
