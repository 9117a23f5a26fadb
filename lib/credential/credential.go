// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ticketdesk/ticketdesk/lib/sealed"
	"github.com/ticketdesk/ticketdesk/lib/secret"
)

// EnvToken is the environment variable checked before any configured
// token.
const EnvToken = "TICKETDESK_TOKEN"

// Source records where a token came from.
type Source string

const (
	SourceNone        Source = "none"
	SourceEnvironment Source = "environment"
	SourceConfig      Source = "config"
	SourceFile        Source = "file"
	SourceSealed      Source = "sealed-file"
)

// ErrIdentityRequired is returned when a sealed token file is configured
// without an identity file.
var ErrIdentityRequired = errors.New("credential: sealed token file requires auth.identity_file")

// Options carries the configured token settings. Lookup defaults to
// os.LookupEnv.
type Options struct {
	Lookup       func(string) (string, bool)
	Token        string
	TokenFile    string
	IdentityFile string
}

// Token is a resolved bearer token. The zero Source is SourceNone, which
// means requests go out unauthenticated.
type Token struct {
	buffer *secret.Buffer
	source Source
	path   string
}

// Resolve finds the token per the package resolution order. A missing
// token is not an error: the returned Token is empty.
func Resolve(options Options) (*Token, error) {
	lookup := options.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if value, ok := lookup(EnvToken); ok && strings.TrimSpace(value) != "" {
		return fromString(value, SourceEnvironment)
	}
	if strings.TrimSpace(options.Token) != "" {
		return fromString(options.Token, SourceConfig)
	}
	if options.TokenFile != "" {
		return readTokenFile(options.TokenFile, options.IdentityFile)
	}
	return &Token{source: SourceNone}, nil
}

func fromString(value string, source Source) (*Token, error) {
	buffer, err := secret.NewFromBytes([]byte(strings.TrimSpace(value)))
	if err != nil {
		return nil, fmt.Errorf("credential: storing %s token: %w", source, err)
	}
	return &Token{buffer: buffer, source: source}, nil
}

func readTokenFile(path, identityPath string) (*Token, error) {
	if strings.HasSuffix(path, ".age") {
		// Binary age payloads may end in whitespace bytes, so the file is
		// read raw instead of through secret.ReadFile.
		ciphertext, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("credential: reading token file: %w", err)
		}
		return unseal(ciphertext, path, identityPath)
	}

	buffer, err := secret.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("credential: reading token file %s: %w", path, err)
	}
	if sealed.IsArmored(buffer.Bytes()) {
		defer buffer.Close()
		return unseal(buffer.Bytes(), path, identityPath)
	}
	return &Token{buffer: buffer, source: SourceFile, path: path}, nil
}

func unseal(ciphertext []byte, path, identityPath string) (*Token, error) {
	if identityPath == "" {
		return nil, ErrIdentityRequired
	}
	identity, err := secret.ReadFile(identityPath)
	if err != nil {
		return nil, fmt.Errorf("credential: reading identity file: %w", err)
	}
	defer identity.Close()

	plaintext, err := sealed.Decrypt(ciphertext, identity)
	if err != nil {
		return nil, fmt.Errorf("credential: unsealing %s: %w", path, err)
	}
	return &Token{buffer: plaintext, source: SourceSealed, path: path}, nil
}

// Source reports where the token came from.
func (t *Token) Source() Source { return t.source }

// Empty reports whether no token was found.
func (t *Token) Empty() bool { return t.buffer == nil }

// Value returns the token for an Authorization header, or "" when
// empty. The returned string is a heap copy.
func (t *Token) Value() string {
	if t.buffer == nil {
		return ""
	}
	return t.buffer.String()
}

// String never includes the token.
func (t *Token) String() string {
	if t.Empty() {
		return "credential(none)"
	}
	return "credential(" + string(t.source) + ", redacted)"
}

// LogValue never includes the token.
func (t *Token) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("source", string(t.source))}
	if t.path != "" {
		attrs = append(attrs, slog.String("path", t.path))
	}
	return slog.GroupValue(attrs...)
}

// Close releases the token memory. Idempotent.
func (t *Token) Close() error {
	if t.buffer == nil {
		return nil
	}
	return t.buffer.Close()
}
