// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"errors"
	"testing"
)

func TestNewIsZeroFilled(t *testing.T) {
	buffer, err := New(64)
	if err != nil {
		t.Fatalf("New(64): %v", err)
	}
	defer buffer.Close()

	if buffer.Len() != 64 {
		t.Errorf("Len = %d, want 64", buffer.Len())
	}
	for index, value := range buffer.Bytes() {
		if value != 0 {
			t.Fatalf("byte %d = %d, want 0", index, value)
		}
	}
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d) should fail", size)
		}
	}
}

func TestNewFromBytesZeroesSource(t *testing.T) {
	source := []byte("tdk_live_8f2c1e")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if buffer.String() != "tdk_live_8f2c1e" {
		t.Errorf("String = %q", buffer.String())
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source byte %d not zeroed", index)
		}
	}

	if _, err := NewFromBytes(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("NewFromBytes(nil) = %v, want ErrEmpty", err)
	}
}

func TestEqual(t *testing.T) {
	buffer, err := NewFromBytes([]byte("token"))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if !buffer.Equal([]byte("token")) {
		t.Error("Equal should match identical bytes")
	}
	if buffer.Equal([]byte("tokens")) || buffer.Equal([]byte("t0ken")) {
		t.Error("Equal matched different bytes")
	}
}

func TestCloseIsIdempotentAndBlocksReads(t *testing.T) {
	buffer, err := NewFromBytes([]byte("token"))
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if buffer.Len() != 0 {
		t.Errorf("Len after Close = %d", buffer.Len())
	}

	defer func() {
		if recover() == nil {
			t.Error("String after Close should panic")
		}
	}()
	_ = buffer.String()
}
