// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ticketdesk/ticketdesk/lib/sealed"
	"github.com/ticketdesk/ticketdesk/lib/secret"
)

func noEnv(string) (string, bool) { return "", false }

func envWith(value string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if name == EnvToken {
			return value, true
		}
		return "", false
	}
}

func resolve(t *testing.T, options Options) *Token {
	t.Helper()
	token, err := Resolve(options)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	t.Cleanup(func() { token.Close() })
	return token
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestResolveOrder(t *testing.T) {
	file := writeFile(t, "token", []byte("from-file\n"))

	tests := []struct {
		name       string
		options    Options
		wantValue  string
		wantSource Source
	}{
		{
			name:       "environment wins",
			options:    Options{Lookup: envWith("from-env"), Token: "from-config", TokenFile: file},
			wantValue:  "from-env",
			wantSource: SourceEnvironment,
		},
		{
			name:       "blank environment ignored",
			options:    Options{Lookup: envWith("  "), Token: "from-config"},
			wantValue:  "from-config",
			wantSource: SourceConfig,
		},
		{
			name:       "file",
			options:    Options{Lookup: noEnv, TokenFile: file},
			wantValue:  "from-file",
			wantSource: SourceFile,
		},
		{
			name:       "nothing configured",
			options:    Options{Lookup: noEnv},
			wantValue:  "",
			wantSource: SourceNone,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			token := resolve(t, test.options)
			if token.Value() != test.wantValue {
				t.Errorf("Value = %q, want %q", token.Value(), test.wantValue)
			}
			if token.Source() != test.wantSource {
				t.Errorf("Source = %q, want %q", token.Source(), test.wantSource)
			}
			if token.Empty() != (test.wantValue == "") {
				t.Errorf("Empty = %v", token.Empty())
			}
		})
	}
}

func sealedSetup(t *testing.T) (identityPath, publicKey string) {
	t.Helper()
	identityPath = filepath.Join(t.TempDir(), "identity.txt")
	publicKey, err := GenerateIdentity(identityPath)
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	return identityPath, publicKey
}

func sealToken(t *testing.T, value, publicKey string) []byte {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte(value))
	if err != nil {
		t.Fatal(err)
	}
	defer buffer.Close()
	ciphertext, err := Seal(buffer, []string{publicKey})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	return ciphertext
}

func TestResolveSealedFile(t *testing.T) {
	identityPath, publicKey := sealedSetup(t)
	ciphertext := sealToken(t, "tdk_live_8f2c1e", publicKey)

	for _, name := range []string{"token.age", "token.txt"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, ciphertext)
			token := resolve(t, Options{Lookup: noEnv, TokenFile: path, IdentityFile: identityPath})
			if token.Value() != "tdk_live_8f2c1e" {
				t.Errorf("Value = %q", token.Value())
			}
			if token.Source() != SourceSealed {
				t.Errorf("Source = %q, want sealed-file", token.Source())
			}
		})
	}
}

func TestResolveBinarySealedFile(t *testing.T) {
	identityPath, publicKey := sealedSetup(t)
	ciphertext, err := sealed.Encrypt([]byte("tdk_live_8f2c1e"), []string{publicKey}, false)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	path := writeFile(t, "token.age", ciphertext)
	token := resolve(t, Options{Lookup: noEnv, TokenFile: path, IdentityFile: identityPath})
	if token.Value() != "tdk_live_8f2c1e" {
		t.Errorf("Value = %q", token.Value())
	}
}

func TestResolveSealedErrors(t *testing.T) {
	_, publicKey := sealedSetup(t)
	path := writeFile(t, "token.age", sealToken(t, "token", publicKey))

	if _, err := Resolve(Options{Lookup: noEnv, TokenFile: path}); !errors.Is(err, ErrIdentityRequired) {
		t.Errorf("missing identity error = %v", err)
	}

	otherIdentity, _ := sealedSetup(t)
	if _, err := Resolve(Options{Lookup: noEnv, TokenFile: path, IdentityFile: otherIdentity}); err == nil {
		t.Error("wrong identity should fail")
	}

	if _, err := Resolve(Options{Lookup: noEnv, TokenFile: filepath.Join(t.TempDir(), "absent")}); err == nil {
		t.Error("missing token file should fail")
	}
}

func TestGenerateIdentityRefusesOverwrite(t *testing.T) {
	path, publicKey := sealedSetup(t)
	if !strings.HasPrefix(publicKey, "age1") {
		t.Errorf("public key = %q", publicKey)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("identity mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := GenerateIdentity(path); err == nil {
		t.Error("GenerateIdentity over an existing file should fail")
	}
}

func TestTokenNeverPrintsValue(t *testing.T) {
	path := writeFile(t, "token", []byte("tdk_live_8f2c1e"))
	token := resolve(t, Options{Lookup: noEnv, TokenFile: path})

	var logged bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logged, nil))
	logger.Info("authenticated", "token", token)

	for _, rendered := range []string{logged.String(), token.String()} {
		if strings.Contains(rendered, "tdk_live") {
			t.Errorf("token value leaked: %s", rendered)
		}
	}
	if !strings.Contains(logged.String(), "token.source=file") {
		t.Errorf("log line = %q, want the source", logged.String())
	}
}
