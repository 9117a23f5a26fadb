// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package querycache is the in-memory cache of API responses shared by
// the viewer and the CLI within one process.
//
// Keys are slash-separated paths ("tickets/7", "ticket-events/7/page=2")
// so that a mutation can invalidate a whole family of queries with one
// prefix. Each entry has its own stale time: a fresh entry is served
// from memory, a stale or invalidated one is refetched on the next
// read. Concurrent reads of the same missing key share one fetch.
//
// Values are stored as deterministic CBOR snapshots (lib/codec), so
// every read decodes an independent copy that callers may mutate
// freely. Snapshots above a size threshold are LZ4 block-compressed.
// Each snapshot carries a BLAKE3 fingerprint, which lets a refetch
// report whether the data actually changed; the viewer uses this to
// skip redundant redraws while polling.
//
// Nothing is persisted. The cache lives and dies with the process.
package querycache
