// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cycle

import (
	"github.com/meridianhealth/portal/pkg/datatypes"
)

// Offsets, in days, used for the client-side prediction estimate.
// Ovulation is assumed 14 days before the next period; the fertility
// window opens 4 days before ovulation and closes the day after.
const (
	lutealPhaseDays     = 14
	fertileLeadDays     = 4
	fertileTrailingDays = 1
)

// PredictionSource records where a prediction came from, so the view
// can label local estimates differently from backend-computed ones.
type PredictionSource int

const (
	// SourceUndetermined: no history at all; render placeholders.
	SourceUndetermined PredictionSource = iota
	// SourceBackend: the backend computed the prediction.
	SourceBackend
	// SourceLocal: client-side estimate from the latest cycle.
	SourceLocal
)

// String returns "backend", "local" or "undetermined".
func (s PredictionSource) String() string {
	switch s {
	case SourceBackend:
		return "backend"
	case SourceLocal:
		return "local"
	default:
		return "undetermined"
	}
}

// PredictionResult pairs a prediction with its provenance. Prediction
// is nil when Source is SourceUndetermined.
type PredictionResult struct {
	Prediction *datatypes.CyclePrediction
	Source     PredictionSource
}

// predictFromCycle estimates the next period, ovulation and fertility
// window from one cycle's start date and declared length.
func predictFromCycle(c *datatypes.MenstrualCycle) *datatypes.CyclePrediction {
	length := c.DeclaredLength()
	nextPeriod := datatypes.AddDays(c.StartDate, length)
	ovulation := datatypes.AddDays(c.StartDate, length-lutealPhaseDays)
	return &datatypes.CyclePrediction{
		NextPeriodDate:       nextPeriod,
		OvulationDate:        ovulation,
		FertilityWindowStart: datatypes.AddDays(ovulation, -fertileLeadDays),
		FertilityWindowEnd:   datatypes.AddDays(ovulation, fertileTrailingDays),
	}
}
