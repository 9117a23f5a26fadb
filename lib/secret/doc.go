// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds key material outside the Go heap.
//
// A [Buffer] is an anonymous mmap region locked into RAM (mlock) and
// excluded from core dumps (MADV_DONTDUMP). Close zeroes, unlocks, and
// unmaps it. ticketdesk keeps age identities and decrypted API tokens
// in Buffers for as long as it needs them; [Buffer.String] makes the
// heap copy an HTTP header or age parser requires, at the last moment.
//
// [ReadFile] loads a secret from a file (or stdin for "-") straight
// into a Buffer, trimming surrounding whitespace.
package secret
