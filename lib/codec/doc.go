// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration used for ticketdesk's
// in-process snapshots.
//
// JSON is the wire format of the ticketing API and of CLI --json
// output. CBOR is used only inside the process: the query cache stores
// every response as a CBOR snapshot so that each read decodes an
// independent copy, and so that two snapshots of the same data can be
// compared byte-for-byte. The encoder therefore uses Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items.
//
//	data, err := codec.Marshal(page)
//	err = codec.Unmarshal(data, &page)
//
// API types carry only `json` struct tags. fxamacker/cbor falls back
// to them when no `cbor` tag is present, so field names and omitempty
// behave identically in both encodings.
package codec
