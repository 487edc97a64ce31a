// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// Clinically plausible bounds for a declared cycle length, in days.
const (
	MinCycleLength = 21
	MaxCycleLength = 35

	// DefaultCycleLength is the fallback used when a stored record carries
	// no usable declared length (legacy rows, partial imports).
	DefaultCycleLength = 28
)

// MenstrualCycle is one recorded cycle for a user.
//
// EndDate == nil means the cycle is still active. CycleLength is the
// length the user declared when logging the cycle; it is never rewritten
// to the realized length after the cycle closes.
type MenstrualCycle struct {
	ID          string       `json:"cycle_id"`
	UserID      string       `json:"user_id,omitempty"`
	StartDate   strfmt.Date  `json:"start_date"`
	EndDate     *strfmt.Date `json:"end_date,omitempty"`
	CycleLength int          `json:"cycle_length"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
}

// Active reports whether the cycle is still ongoing.
func (c *MenstrualCycle) Active() bool {
	return c.EndDate == nil
}

// RealizedLength returns endDate - startDate in days once the cycle is
// closed. The second return is false while the cycle is active.
func (c *MenstrualCycle) RealizedLength() (int, bool) {
	if c.EndDate == nil {
		return 0, false
	}
	return DaysBetween(c.StartDate, *c.EndDate), true
}

// DeclaredLength returns CycleLength, or DefaultCycleLength when the
// stored value is not usable for date arithmetic.
func (c *MenstrualCycle) DeclaredLength() int {
	if c.CycleLength <= 0 {
		return DefaultCycleLength
	}
	return c.CycleLength
}

// CyclePrediction is a derived projection over a user's cycle history.
// It is never persisted; the backend computes it on demand and the client
// falls back to a local estimate when the backend has no history.
type CyclePrediction struct {
	NextPeriodDate       strfmt.Date `json:"next_period_date"`
	OvulationDate        strfmt.Date `json:"ovulation_date"`
	FertilityWindowStart strfmt.Date `json:"fertility_window_start"`
	FertilityWindowEnd   strfmt.Date `json:"fertility_window_end"`
}

// CreateCycleRequest is the payload for logging a new cycle.
//
// StartDate is the raw form value; the client validates that it parses
// before any request is made, and the backend re-validates because it is
// the source of truth for every cycle invariant.
type CreateCycleRequest struct {
	StartDate   string `json:"start_date" binding:"required"`
	CycleLength int    `json:"cycle_length"`
	Notes       string `json:"notes,omitempty"`
}

// UpdateCycleRequest is the payload for closing a cycle or amending its
// notes. A nil field is left unchanged.
type UpdateCycleRequest struct {
	EndDate *string `json:"end_date,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}
