// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cycle

import "errors"

// Validation errors raised before any network call is made. Each
// violated invariant has its own sentinel so the UI can show a distinct
// message per rejection reason.
var (
	// ErrStartDateRequired: the start-date form field was empty.
	ErrStartDateRequired = errors.New("start date is required")

	// ErrStartDateInvalid: the start-date field did not parse as a
	// calendar date.
	ErrStartDateInvalid = errors.New("start date is not a valid calendar date")

	// ErrStartDateInFuture: cycles cannot start after today.
	ErrStartDateInFuture = errors.New("start date cannot be in the future")

	// ErrActiveCycleExists: a cycle is still open; it must be closed
	// before a new one can be logged.
	ErrActiveCycleExists = errors.New("current cycle must be ended before logging a new one")

	// ErrCycleLengthOutOfRange: declared length outside [21, 35] days.
	ErrCycleLengthOutOfRange = errors.New("cycle length must be between 21 and 35 days")

	// ErrNoActiveCycle: there is nothing to close.
	ErrNoActiveCycle = errors.New("no active cycle to end")

	// ErrEndDateInvalid: the end-date field did not parse.
	ErrEndDateInvalid = errors.New("end date is not a valid calendar date")

	// ErrEndBeforeStart: a cycle cannot end before it started.
	ErrEndBeforeStart = errors.New("end date cannot be before the cycle start date")

	// ErrEndDateInFuture: cycles cannot end after today.
	ErrEndDateInFuture = errors.New("end date cannot be in the future")
)
