// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential resolves the bearer token ticketdesk sends to the
// support API.
//
// Resolution order, first non-empty wins:
//   - the TICKETDESK_TOKEN environment variable
//   - auth.token in the config file
//   - auth.token_file, read from disk
//
// A token file that ends in .age, or whose contents are an armored age
// block, is sealed: it is decrypted with the identity at
// auth.identity_file. [Seal] produces such files and [GenerateIdentity]
// writes a fresh identity for an operator.
//
// Resolved tokens live in a [secret.Buffer]. [Token] implements
// slog.LogValuer and fmt.Stringer without exposing the value, so a token
// passed to a logger by mistake prints its source only.
package credential
