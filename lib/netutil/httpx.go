// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import "io"

// MaxResponseSize bounds JSON API response body reads: 32 MiB. The
// largest legitimate response (a page of 100 tickets with AI text) is
// well under a megabyte.
const MaxResponseSize int64 = 32 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}
