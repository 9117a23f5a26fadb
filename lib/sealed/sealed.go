// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/ticketdesk/ticketdesk/lib/secret"
)

// maxPlaintextSize bounds decrypted output. Sealed values are API
// tokens, not documents.
const maxPlaintextSize = 64 << 10

// ErrNoRecipients is returned by Encrypt without recipients.
var ErrNoRecipients = errors.New("sealed: at least one recipient is required")

// Keypair is an age X25519 identity and its public recipient.
type Keypair struct {
	// PrivateKey is the AGE-SECRET-KEY-1... identity. Never log it.
	PrivateKey *secret.Buffer

	// PublicKey is the age1... recipient.
	PublicKey string
}

// Close releases the private key. Idempotent.
func (k *Keypair) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// IdentityFile renders the keypair in age-keygen's file layout.
// The result contains the private key; write it with mode 0600.
func (k *Keypair) IdentityFile() []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, "# public key: %s\n", k.PublicKey)
	out.Write(k.PrivateKey.Bytes())
	out.WriteByte('\n')
	return out.Bytes()
}

// GenerateKeypair creates a new X25519 keypair.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("sealed: generating keypair: %w", err)
	}
	privateKey, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("sealed: protecting private key: %w", err)
	}
	return &Keypair{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// ParsePublicKey validates an age1... recipient string.
func ParsePublicKey(key string) (*age.X25519Recipient, error) {
	recipient, err := age.ParseX25519Recipient(strings.TrimSpace(key))
	if err != nil {
		return nil, fmt.Errorf("sealed: parsing recipient %q: %w", key, err)
	}
	return recipient, nil
}

// ParseRecipients parses recipient lines the way age's -R flag reads
// them: one age1... key per line, blank lines and # comments ignored.
func ParseRecipients(reader io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(reader)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if _, err := ParsePublicKey(text); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		keys = append(keys, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sealed: reading recipients: %w", err)
	}
	return keys, nil
}

// Encrypt encrypts plaintext to every recipient. With armored set the
// result is a PEM-style "AGE ENCRYPTED FILE" block.
func Encrypt(plaintext []byte, recipientKeys []string, armored bool) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, ErrNoRecipients
	}
	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := ParsePublicKey(key)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}

	var out bytes.Buffer
	var sink io.WriteCloser = nopCloser{&out}
	if armored {
		sink = armor.NewWriter(&out)
	}
	writer, err := age.Encrypt(sink, recipients...)
	if err != nil {
		return nil, fmt.Errorf("sealed: creating encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("sealed: encrypting: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("sealed: finalizing: %w", err)
	}
	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("sealed: closing armor: %w", err)
	}
	return out.Bytes(), nil
}

// Decrypt decrypts ciphertext with the identities in identityFile (the
// contents of an age identity file, comments allowed). The identity
// buffer is borrowed. The caller must Close the result.
func Decrypt(ciphertext []byte, identityFile *secret.Buffer) (*secret.Buffer, error) {
	identities, err := age.ParseIdentities(strings.NewReader(identityFile.String()))
	if err != nil {
		return nil, fmt.Errorf("sealed: parsing identity: %w", err)
	}

	var source io.Reader = bytes.NewReader(ciphertext)
	if IsArmored(ciphertext) {
		source = armor.NewReader(source)
	}
	reader, err := age.Decrypt(source, identities...)
	if err != nil {
		return nil, fmt.Errorf("sealed: decrypting: %w", err)
	}
	return secret.ReadFrom(io.LimitReader(reader, maxPlaintextSize))
}

// IsArmored reports whether data starts with the age armor header,
// ignoring leading whitespace.
func IsArmored(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(armor.Header))
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
