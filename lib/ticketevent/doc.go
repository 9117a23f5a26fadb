// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketevent turns raw activity events into display records.
//
// [Format] classifies an event by type and metadata into a label, an
// icon category with its color, an AI flag, and an optional detail
// line. [Renderer.RenderMeta] turns the event's metadata into a
// before/after table of changed fields plus a flat list of any other
// keys, formatting each value by field (dates, status and priority
// codes, booleans, numeric user IDs).
//
// Every function here is pure and total: unknown event types, missing
// keys, and values of unexpected shape all have a defined fallback, so
// a malformed event renders as something generic instead of failing.
//
// Display text is Brazilian Portuguese, matching the ticketing
// service's users.
package ticketevent
