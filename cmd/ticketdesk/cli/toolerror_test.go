// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/ticketdesk/ticketdesk/lib/ticketapi"
)

func TestToolError_ErrorWithHint(t *testing.T) {
	err := Validation("missing ticket id").WithHint("Usage: ticketdesk show <id>")
	want := "missing ticket id\n\nUsage: ticketdesk show <id>"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if plain := Internal("unexpected failure"); strings.Contains(plain.Error(), "\n\n") {
		t.Error("empty hint should not add a blank line")
	}
}

func TestToolError_SurvivesWrapping(t *testing.T) {
	inner := NotFound("ticket 7 not found").WithHint("Check the trash.")
	wrapped := fmt.Errorf("restore: %w", inner)

	var toolError *ToolError
	if !errors.As(wrapped, &toolError) {
		t.Fatal("errors.As should find ToolError in wrapped chain")
	}
	if toolError.Category != CategoryNotFound || toolError.Hint != "Check the trash." {
		t.Errorf("unwrapped = %+v", toolError)
	}
	if toolError.ExitCode() != 3 {
		t.Errorf("ExitCode = %d, want 3", toolError.ExitCode())
	}
}

func TestFromAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		hint     bool
	}{
		{"invalid id", ticketapi.ErrInvalidID, CategoryValidation, false},
		{"422", &ticketapi.APIError{StatusCode: http.StatusUnprocessableEntity}, CategoryValidation, false},
		{"404", &ticketapi.APIError{StatusCode: http.StatusNotFound}, CategoryNotFound, false},
		{"401", &ticketapi.APIError{StatusCode: http.StatusUnauthorized}, CategoryForbidden, true},
		{"403", &ticketapi.APIError{StatusCode: http.StatusForbidden}, CategoryForbidden, true},
		{"409", &ticketapi.APIError{StatusCode: http.StatusConflict}, CategoryConflict, false},
		{"503", &ticketapi.APIError{StatusCode: http.StatusServiceUnavailable}, CategoryTransient, false},
		{"deadline", context.DeadlineExceeded, CategoryTransient, false},
		{"other", errors.New("decode failed"), CategoryInternal, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := FromAPIError("show ticket 7", test.err)
			var toolError *ToolError
			if !errors.As(err, &toolError) {
				t.Fatalf("FromAPIError returned %T", err)
			}
			if toolError.Category != test.category {
				t.Errorf("Category = %q, want %q", toolError.Category, test.category)
			}
			if (toolError.Hint != "") != test.hint {
				t.Errorf("Hint = %q, want hint=%v", toolError.Hint, test.hint)
			}
			if !strings.HasPrefix(err.Error(), "show ticket 7: ") {
				t.Errorf("Error() = %q, want action prefix", err.Error())
			}
			if !errors.Is(err, test.err) {
				t.Error("the API error should stay in the chain")
			}
		})
	}
}

func TestFromAPIErrorPassesThrough(t *testing.T) {
	if FromAPIError("list", nil) != nil {
		t.Error("nil should stay nil")
	}
	original := Conflict("already queued")
	if err := FromAPIError("enqueue", original); err != error(original) {
		t.Errorf("ToolError should pass through unchanged, got %v", err)
	}
}
