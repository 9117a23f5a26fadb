// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP response readers.
//
// ReadResponse caps every body read at MaxResponseSize so a
// misbehaving server cannot exhaust memory. It is meant for JSON API
// responses, not for streaming downloads.
package netutil
