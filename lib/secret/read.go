// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// maxSecretSize bounds how much ReadFile will read. Tokens and age
// identity files are a few hundred bytes.
const maxSecretSize = 64 << 10

// ReadFile reads a secret from path, or from stdin when path is "-".
// Surrounding whitespace is trimmed. Returns ErrEmpty when nothing is
// left. The caller must Close the returned Buffer.
func ReadFile(path string) (*Buffer, error) {
	var source io.Reader
	if path == "-" {
		source = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		source = file
	}
	return ReadFrom(source)
}

// ReadFrom reads a secret from reader up to 64 KiB, trimming
// surrounding whitespace.
func ReadFrom(reader io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxSecretSize+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("secret: reading: %w", err)
	}
	if len(data) > maxSecretSize {
		Zero(data)
		return nil, fmt.Errorf("secret: larger than %d bytes", maxSecretSize)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, ErrEmpty
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
