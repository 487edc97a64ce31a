// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cycle

import (
	"github.com/go-openapi/strfmt"

	"github.com/meridianhealth/portal/pkg/datatypes"
)

// Phase is the clinical phase derived from the current cycle day.
type Phase int

const (
	// PhaseUndetermined is rendered when the user has no cycle history.
	PhaseUndetermined Phase = iota
	PhaseMenstrual
	PhaseFollicular
	PhaseOvulatory
	PhaseLuteal
)

// String returns the display name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseMenstrual:
		return "menstrual"
	case PhaseFollicular:
		return "follicular"
	case PhaseOvulatory:
		return "ovulatory"
	case PhaseLuteal:
		return "luteal"
	default:
		return "undetermined"
	}
}

// Fixed day thresholds for phase bucketing. These do not scale with the
// declared cycle length (a 35-day cycle still buckets ovulation at days
// 14-15); the simplification is intentional and kept as-is.
const (
	menstrualEndDay  = 5
	follicularEndDay = 13
	ovulatoryEndDay  = 15
)

// phaseForDay buckets a 1-indexed cycle day into a phase.
func phaseForDay(day int) Phase {
	switch {
	case day < 1:
		return PhaseUndetermined
	case day <= menstrualEndDay:
		return PhaseMenstrual
	case day <= follicularEndDay:
		return PhaseFollicular
	case day <= ovulatoryEndDay:
		return PhaseOvulatory
	default:
		return PhaseLuteal
	}
}

// Snapshot is the derived display state for the cycle view: where the
// user is in their cycle right now. When Determined is false every
// other field is a placeholder and the view renders "undetermined"
// rather than treating zero as a valid day.
type Snapshot struct {
	Determined     bool
	Cycle          *datatypes.MenstrualCycle
	DaysSinceStart int
	CycleDay       int
	Phase          Phase
}

// deriveSnapshot computes the day/phase for a display cycle as of today.
//
// The cycle day wraps modulo the declared length, so the number stays
// meaningful as an estimate even after the expected length has elapsed:
//
//	day = (daysSinceStart mod cycleLength) + 1
func deriveSnapshot(c *datatypes.MenstrualCycle, today strfmt.Date) Snapshot {
	if c == nil {
		return Snapshot{Phase: PhaseUndetermined}
	}

	days := datatypes.DaysBetween(c.StartDate, today)
	if days < 0 {
		// A future-dated record (backend data the client did not write)
		// cannot produce a meaningful day number.
		return Snapshot{Cycle: c, Phase: PhaseUndetermined}
	}

	length := c.DeclaredLength()
	day := (days % length) + 1
	return Snapshot{
		Determined:     true,
		Cycle:          c,
		DaysSinceStart: days,
		CycleDay:       day,
		Phase:          phaseForDay(day),
	}
}
