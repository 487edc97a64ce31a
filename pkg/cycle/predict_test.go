// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cycle

import (
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/portal/pkg/datatypes"
)

func dateStr(t *testing.T, d strfmt.Date) string {
	t.Helper()
	return d.String()
}

func TestPredictFromCycleOffsets(t *testing.T) {
	start, err := datatypes.ParseDate("2025-01-01")
	require.NoError(t, err)

	p := predictFromCycle(&datatypes.MenstrualCycle{StartDate: start, CycleLength: 28})
	assert.Equal(t, "2025-01-29", dateStr(t, p.NextPeriodDate))
	assert.Equal(t, "2025-01-15", dateStr(t, p.OvulationDate))
	assert.Equal(t, "2025-01-11", dateStr(t, p.FertilityWindowStart))
	assert.Equal(t, "2025-01-16", dateStr(t, p.FertilityWindowEnd))
}

func TestPredictFromCycleShortAndLongLengths(t *testing.T) {
	start, err := datatypes.ParseDate("2025-03-10")
	require.NoError(t, err)

	short := predictFromCycle(&datatypes.MenstrualCycle{StartDate: start, CycleLength: 21})
	assert.Equal(t, "2025-03-31", dateStr(t, short.NextPeriodDate))
	assert.Equal(t, "2025-03-17", dateStr(t, short.OvulationDate))

	long := predictFromCycle(&datatypes.MenstrualCycle{StartDate: start, CycleLength: 35})
	assert.Equal(t, "2025-04-14", dateStr(t, long.NextPeriodDate))
	assert.Equal(t, "2025-03-31", dateStr(t, long.OvulationDate))
}

func TestPredictFromCycleCrossesMonthAndYear(t *testing.T) {
	start, err := datatypes.ParseDate("2024-12-20")
	require.NoError(t, err)

	p := predictFromCycle(&datatypes.MenstrualCycle{StartDate: start, CycleLength: 28})
	assert.Equal(t, "2025-01-17", dateStr(t, p.NextPeriodDate))
	assert.Equal(t, "2025-01-03", dateStr(t, p.OvulationDate))
}

func TestPredictionSourceString(t *testing.T) {
	assert.Equal(t, "backend", SourceBackend.String())
	assert.Equal(t, "local", SourceLocal.String())
	assert.Equal(t, "undetermined", SourceUndetermined.String())
}
