// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the wire types shared by the portal client
// packages and the careapi reference backend.
//
// Calendar dates (cycle starts, predictions, appointment days) travel as
// go-openapi strfmt.Date values, which marshal to RFC 3339 full-date
// ("2006-01-02"). All date arithmetic in this package normalizes to UTC
// midnight so that day differences are whole numbers regardless of the
// wall-clock time a value was built from.
package datatypes

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) strfmt.Date {
	y, m, d := t.Date()
	return strfmt.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses a "2006-01-02" string into a calendar date.
func ParseDate(s string) (strfmt.Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return strfmt.Date{}, err
	}
	return DateOf(t), nil
}

// DateTime returns the date as a time.Time at UTC midnight.
func DateTime(d strfmt.Date) time.Time {
	return time.Time(d).Truncate(24 * time.Hour)
}

// AddDays returns the date shifted by n calendar days.
func AddDays(d strfmt.Date, n int) strfmt.Date {
	return DateOf(DateTime(d).AddDate(0, 0, n))
}

// DaysBetween returns the floor of (to - from) in whole days.
// Negative when to precedes from.
func DaysBetween(from, to strfmt.Date) int {
	diff := DateTime(to).Sub(DateTime(from))
	days := int(diff.Hours() / 24)
	return days
}

// DateAfter reports whether a is strictly after b.
func DateAfter(a, b strfmt.Date) bool {
	return DateTime(a).After(DateTime(b))
}

// DateBefore reports whether a is strictly before b.
func DateBefore(a, b strfmt.Date) bool {
	return DateTime(a).Before(DateTime(b))
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b strfmt.Date) bool {
	return DateTime(a).Equal(DateTime(b))
}
