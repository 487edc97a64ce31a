// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the portal's error taxonomy. Callers classify with
// errors.Is and decide how to surface each class:
//
//   - ErrSessionExpired: the backend returned 401. The session-expired
//     hook has already fired; the caller should send the user to login.
//   - ErrNotFound: the backend returned 404. For predictions this is the
//     normal "no history yet" state, not an error banner.
//   - ErrUnreachable: the request never produced an HTTP response
//     (connection refused, timeout). Surfaced as "try again".
var (
	ErrSessionExpired = errors.New("session expired")
	ErrNotFound       = errors.New("not found")
	ErrUnreachable    = errors.New("portal backend unreachable")
)

// APIError is a non-2xx response that carried (or should have carried) a
// server-provided message. For 400-class validation failures Message is
// surfaced to the user verbatim; when the server gave no message a
// generic fallback is filled in so the UI never renders an empty error.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("portal api: %s (status %d)", e.Message, e.StatusCode)
}

// UserMessage returns the text to show the user: the server's own
// message for validation failures, the generic fallback for everything
// else (server internals are never surfaced).
func (e *APIError) UserMessage() string {
	if e.Message != "" && IsValidation(e) {
		return e.Message
	}
	return genericFailureMessage
}

// IsValidation reports whether err is a 400-class server validation
// failure whose message should be shown verbatim.
func IsValidation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 &&
			apiErr.StatusCode != http.StatusUnauthorized &&
			apiErr.StatusCode != http.StatusNotFound
	}
	return false
}

// genericFailureMessage is the fallback shown when the server rejected a
// request without providing a message of its own.
const genericFailureMessage = "the request could not be completed, please try again"
