// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ticketdesk/ticketdesk/lib/ticketapi"
)

// ErrorCategory classifies command errors so scripts can decide
// whether to fix the input, retry, or give up without parsing the
// message text.
type ErrorCategory string

const (
	// CategoryValidation: missing or malformed input, including 422
	// responses. Fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: the ticket does not exist (or is in the trash
	// when the command expected an active one).
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: the caller is not authenticated or may not
	// modify the ticket.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict: the operation conflicts with server state, such
	// as an AI job of the same kind already queued.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient: network failure, timeout, rate limit, or a 5xx
	// response. Back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: an unexpected failure. Report rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps categories to process exit codes.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryForbidden:  4,
	CategoryConflict:   5,
	CategoryTransient:  6,
	CategoryInternal:   1,
}

// ToolError is a categorized error returned by commands. It wraps the
// underlying error, so errors.Is and errors.As see the full chain.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional next step shown after the message.
	Hint string
}

// Error returns the underlying message, followed by the hint when set.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// ExitCode returns the process exit code of the category.
func (e *ToolError) ExitCode() int {
	if code, ok := exitCodes[e.Category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromAPIError categorizes an error returned by the ticket API client,
// prefixed with action ("show ticket 7"). An error that is already a
// ToolError passes through unchanged. Returns nil for a nil error.
func FromAPIError(action string, err error) error {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return err
	}

	wrapped := &ToolError{Err: fmt.Errorf("%s: %w", action, err)}
	switch {
	case errors.Is(err, ticketapi.ErrInvalidID), ticketapi.IsValidation(err):
		wrapped.Category = CategoryValidation
	case ticketapi.IsNotFound(err):
		wrapped.Category = CategoryNotFound
	case ticketapi.IsUnauthorized(err):
		wrapped.Category = CategoryForbidden
		wrapped.Hint = "Set TICKETDESK_TOKEN, or auth.token_file in the config file."
	case ticketapi.IsForbidden(err):
		wrapped.Category = CategoryForbidden
		wrapped.Hint = "Only the ticket's creator or an administrator may modify it."
	case ticketapi.IsConflict(err):
		wrapped.Category = CategoryConflict
	case ticketapi.IsTransient(err), errors.Is(err, context.DeadlineExceeded), isNetworkError(err):
		wrapped.Category = CategoryTransient
	default:
		wrapped.Category = CategoryInternal
	}
	return wrapped
}

func isNetworkError(err error) bool {
	var netError net.Error
	return errors.As(err, &netError)
}
