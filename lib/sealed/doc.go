// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts and decrypts small secrets with age.
//
// ticketdesk uses it for the API token at rest: `ticketdesk auth seal`
// encrypts a token to one or more age recipients, and the credential
// resolver decrypts a token file ending in .age with the operator's
// identity file. Output is ASCII-armored by default so sealed tokens
// survive copy and paste; Decrypt accepts armored and binary input.
//
// Identities and decrypted plaintext travel as [secret.Buffer] values.
package sealed
