// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/portal/pkg/datatypes"
)

func TestPhaseForDayBuckets(t *testing.T) {
	tests := []struct {
		day  int
		want Phase
	}{
		{1, PhaseMenstrual},
		{5, PhaseMenstrual},
		{6, PhaseFollicular},
		{13, PhaseFollicular},
		{14, PhaseOvulatory},
		{15, PhaseOvulatory},
		{16, PhaseLuteal},
		{28, PhaseLuteal},
		{35, PhaseLuteal},
		{0, PhaseUndetermined},
		{-3, PhaseUndetermined},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, phaseForDay(tt.day), "day %d", tt.day)
	}
}

func TestPhaseBucketsIgnoreDeclaredLength(t *testing.T) {
	// A 35-day cycle still buckets day 14 as ovulatory; thresholds are
	// fixed day numbers, not fractions of the length.
	start, err := datatypes.ParseDate("2025-01-01")
	require.NoError(t, err)
	today, err := datatypes.ParseDate("2025-01-14")
	require.NoError(t, err)

	c := &datatypes.MenstrualCycle{StartDate: start, CycleLength: 35}
	snap := deriveSnapshot(c, today)
	require.True(t, snap.Determined)
	assert.Equal(t, 14, snap.CycleDay)
	assert.Equal(t, PhaseOvulatory, snap.Phase)
}

func TestDeriveSnapshotNilCycle(t *testing.T) {
	today, err := datatypes.ParseDate("2025-01-15")
	require.NoError(t, err)

	snap := deriveSnapshot(nil, today)
	assert.False(t, snap.Determined)
	assert.Equal(t, PhaseUndetermined, snap.Phase)
	assert.Zero(t, snap.CycleDay)
}

func TestDeriveSnapshotFutureStart(t *testing.T) {
	start, err := datatypes.ParseDate("2025-02-01")
	require.NoError(t, err)
	today, err := datatypes.ParseDate("2025-01-15")
	require.NoError(t, err)

	snap := deriveSnapshot(&datatypes.MenstrualCycle{StartDate: start, CycleLength: 28}, today)
	assert.False(t, snap.Determined)
	assert.Equal(t, PhaseUndetermined, snap.Phase)
}

func TestDeriveSnapshotStartDayIsDayOne(t *testing.T) {
	start, err := datatypes.ParseDate("2025-01-15")
	require.NoError(t, err)

	snap := deriveSnapshot(&datatypes.MenstrualCycle{StartDate: start, CycleLength: 28}, start)
	require.True(t, snap.Determined)
	assert.Equal(t, 0, snap.DaysSinceStart)
	assert.Equal(t, 1, snap.CycleDay)
	assert.Equal(t, PhaseMenstrual, snap.Phase)
}

func TestDeriveSnapshotZeroLengthFallsBackToDefault(t *testing.T) {
	// Backend records with a missing length derive against the 28-day
	// default instead of dividing by zero.
	start, err := datatypes.ParseDate("2025-01-01")
	require.NoError(t, err)
	today, err := datatypes.ParseDate("2025-02-10")
	require.NoError(t, err)

	snap := deriveSnapshot(&datatypes.MenstrualCycle{StartDate: start}, today)
	require.True(t, snap.Determined)
	assert.Equal(t, 13, snap.CycleDay)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "menstrual", PhaseMenstrual.String())
	assert.Equal(t, "follicular", PhaseFollicular.String())
	assert.Equal(t, "ovulatory", PhaseOvulatory.String())
	assert.Equal(t, "luteal", PhaseLuteal.String())
	assert.Equal(t, "undetermined", PhaseUndetermined.String())
}
