// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadResponse(t *testing.T) {
	data, err := ReadResponse(strings.NewReader(`{"data":{"id":7}}`))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if string(data) != `{"data":{"id":7}}` {
		t.Errorf("ReadResponse = %q", data)
	}

	if _, err := ReadResponse(failReader{}); err == nil {
		t.Error("read error should propagate")
	}
}

func TestReadResponseIsBounded(t *testing.T) {
	data, err := ReadResponse(io.LimitReader(zeroReader{}, MaxResponseSize+1024))
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if int64(len(data)) != MaxResponseSize {
		t.Errorf("read %d bytes, want %d", len(data), MaxResponseSize)
	}
}

type failReader struct{}

func (failReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

type zeroReader struct{}

func (zeroReader) Read(buffer []byte) (int, error) {
	clear(buffer)
	return len(buffer), nil
}
