// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for ticketdesk.
//
// Configuration comes from a single file named by the --config flag or
// the TICKETDESK_CONFIG environment variable. There is no search path:
// with neither set, [Default] applies. YAML is the primary format;
// files ending in .json or .jsonc are read as JSON with comments and
// trailing commas.
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. After the file, two environment
// variables override it: TICKETDESK_ENV and TICKETDESK_API_URL. The
// token is not part of this precedence; lib/credential resolves it.
//
// Variable expansion (${HOME}, ${VAR:-default}, leading ~) is applied
// to the auth file paths.
//
// Key exports:
//
//   - [Config] -- master struct with API, Auth, UI, Log sections
//   - [Default] -- development defaults
//   - [Resolve] and [LoadFile] -- the entry points for loading
package config
