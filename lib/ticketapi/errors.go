// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrInvalidID is returned without contacting the server when a
// ticket id is not positive.
var ErrInvalidID = errors.New("ticketapi: ticket id must be positive")

// APIError is a non-2xx response from the API. The server answers
// errors with a JSON body carrying a message and, on 422 responses,
// a map of field name to validation messages.
type APIError struct {
	StatusCode int

	// Message is the server's description, or the raw body when it
	// was not JSON.
	Message string

	// Errors maps field names to validation messages.
	Errors map[string][]string

	// RequestID is the X-Request-ID sent with the failing request.
	RequestID string
}

func (err *APIError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "ticketapi: HTTP %d", err.StatusCode)
	if err.Message != "" {
		fmt.Fprintf(&builder, ": %s", err.Message)
	}
	for _, field := range err.Fields() {
		fmt.Fprintf(&builder, "; %s: %s", field, strings.Join(err.Errors[field], " "))
	}
	return builder.String()
}

// Fields returns the names of fields with validation errors, sorted.
func (err *APIError) Fields() []string {
	fields := make([]string, 0, len(err.Errors))
	for field := range err.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func statusIs(err error, code int) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == code
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is a 401 response (missing or
// expired token).
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is a 403 response. The server
// rejects edits and deletes by users who neither created the ticket
// nor are administrators.
func IsForbidden(err error) bool { return statusIs(err, http.StatusForbidden) }

// IsConflict reports whether err is a 409 response, returned when an
// AI job of the same kind is already queued.
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// IsValidation reports whether err is a 422 response.
func IsValidation(err error) bool { return statusIs(err, http.StatusUnprocessableEntity) }

// IsTransient reports whether err may succeed on retry: rate limiting
// and server-side failures.
func IsTransient(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	return apiError.StatusCode == http.StatusTooManyRequests || apiError.StatusCode >= 500
}
