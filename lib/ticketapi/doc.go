// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketapi is a typed client for the ticketing REST API.
//
// [Client] maps each endpoint to one method: ticket CRUD, the trash
// (restore and permanent delete), AI job enqueueing, the per-ticket
// activity timeline, the analytics aggregates, and the current user.
// Non-2xx responses become [*APIError], which carries the server's
// message and, for 422 responses, the per-field validation errors.
//
// [Cached] wraps a Client with a [querycache.Cache] for interactive
// use. Reads are served from the cache while fresh and concurrent
// reads of the same resource share one request. Mutations seed the
// cache with the server's response and invalidate the queries they
// affect, so the next read of a list or timeline refetches.
//
// Responses may arrive gzip- or zstd-encoded; the transport negotiates
// and decodes them transparently.
package ticketapi
