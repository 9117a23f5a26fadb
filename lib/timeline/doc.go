// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package timeline drives the activity timeline of one ticket: which
// page of events to fetch, whether the fetch is loading, failed, empty
// or loaded, and how the loaded page is ordered and rendered.
//
// The controller does no I/O of its own. [Controller.Request] returns
// the [Query] to fetch and [Controller.Resolve] accepts the result, so
// an event loop (the terminal viewer) can run the fetch
// asynchronously; a result for a query that has since been superseded
// is dropped. [Controller.Load] runs both steps synchronously for the
// CLI.
//
// Sorting is a display transform over the fetched page only: toggling
// the order never refetches and never reorders across pages.
package timeline
