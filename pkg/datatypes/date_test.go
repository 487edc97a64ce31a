// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", DateTime(d).Format(DateLayout))

	_, err = ParseDate("15/01/2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDateOfDropsTimeComponent(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	late := time.Date(2025, 3, 9, 23, 45, 12, 0, loc)
	d := DateOf(late)
	assert.Equal(t, "2025-03-09", DateTime(d).Format(DateLayout))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want int
	}{
		{"same day", "2025-01-01", "2025-01-01", 0},
		{"two weeks", "2025-01-01", "2025-01-15", 14},
		{"wraps a month", "2025-01-01", "2025-02-10", 40},
		{"negative when reversed", "2025-01-15", "2025-01-01", -14},
		{"across a leap day", "2024-02-28", "2024-03-01", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, err := ParseDate(tt.from)
			require.NoError(t, err)
			to, err := ParseDate(tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DaysBetween(from, to))
		})
	}
}

func TestAddDaysAndComparisons(t *testing.T) {
	d, err := ParseDate("2025-01-01")
	require.NoError(t, err)

	later := AddDays(d, 28)
	assert.Equal(t, "2025-01-29", DateTime(later).Format(DateLayout))
	assert.True(t, DateAfter(later, d))
	assert.True(t, DateBefore(d, later))
	assert.False(t, DateAfter(d, d))
	assert.True(t, SameDate(d, AddDays(later, -28)))
}

func TestRealizedLength(t *testing.T) {
	start, _ := ParseDate("2025-01-01")
	end, _ := ParseDate("2025-01-29")

	active := MenstrualCycle{StartDate: start, CycleLength: 28}
	_, ok := active.RealizedLength()
	assert.False(t, ok)
	assert.True(t, active.Active())

	closed := MenstrualCycle{StartDate: start, EndDate: &end, CycleLength: 30}
	got, ok := closed.RealizedLength()
	require.True(t, ok)
	assert.Equal(t, 28, got)
	// The declared length is not reconciled to the realized one.
	assert.Equal(t, 30, closed.CycleLength)
}

func TestDeclaredLengthFallback(t *testing.T) {
	c := MenstrualCycle{}
	assert.Equal(t, DefaultCycleLength, c.DeclaredLength())
	c.CycleLength = 32
	assert.Equal(t, 32, c.DeclaredLength())
}
