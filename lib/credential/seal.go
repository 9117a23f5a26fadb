// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"fmt"
	"os"

	"github.com/ticketdesk/ticketdesk/lib/sealed"
	"github.com/ticketdesk/ticketdesk/lib/secret"
)

// Seal encrypts token to the recipients, armored, for use as a sealed
// token file.
func Seal(token *secret.Buffer, recipients []string) ([]byte, error) {
	ciphertext, err := sealed.Encrypt(token.Bytes(), recipients, true)
	if err != nil {
		return nil, fmt.Errorf("credential: sealing token: %w", err)
	}
	return ciphertext, nil
}

// GenerateIdentity writes a new age identity to path with mode 0600 and
// returns its public key. An existing file is never overwritten.
func GenerateIdentity(path string) (string, error) {
	keypair, err := sealed.GenerateKeypair()
	if err != nil {
		return "", err
	}
	defer keypair.Close()

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("credential: creating identity file: %w", err)
	}
	contents := keypair.IdentityFile()
	defer secret.Zero(contents)
	if _, err := file.Write(contents); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("credential: writing identity file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("credential: writing identity file: %w", err)
	}
	return keypair.PublicKey, nil
}
