// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cycle implements the portal's menstrual-cycle tracking domain:
// the user's cycle history, the active-cycle lifecycle, day/phase
// derivation for display, and prediction of the next period, ovulation
// and fertility window.
//
// # Invariants
//
// The Tracker validates every mutation before it leaves the client:
//
//   - at most one cycle is active (endDate unset) at a time
//   - a cycle never starts in the future
//   - the declared cycle length lies in [21, 35] days
//   - a cycle closes on or after its start date and never in the future
//
// The backend re-validates everything; the client checks exist so the
// user gets an immediate, specific message without a round trip, and so
// no request is made for input that cannot succeed.
//
// # State Model
//
// The Tracker holds the session's in-memory cycle list. Mutations are
// fire-and-refetch: a successful create/close is followed by a fresh
// list fetch, and a rejected one leaves the in-memory list untouched.
// There is no optimistic update and no client-side cache beyond the
// single list.
//
// # Thread Safety
//
// All Tracker methods are safe for concurrent use.
package cycle

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/pkg/gateway"
	"github.com/meridianhealth/portal/pkg/logging"
)

// API is the backend surface the tracker needs. *Client implements it
// over the REST gateway; tests substitute an in-memory fake.
type API interface {
	// ListCycles fetches all of the user's cycles, any order.
	ListCycles(ctx context.Context) ([]datatypes.MenstrualCycle, error)

	// GetPredictions fetches the backend-computed prediction.
	// Returns gateway.ErrNotFound when there is no history yet.
	GetPredictions(ctx context.Context) (*datatypes.CyclePrediction, error)

	// CreateCycle persists a new cycle.
	CreateCycle(ctx context.Context, req datatypes.CreateCycleRequest) (*datatypes.MenstrualCycle, error)

	// UpdateCycle amends an existing cycle (close, notes).
	UpdateCycle(ctx context.Context, id string, req datatypes.UpdateCycleRequest) (*datatypes.MenstrualCycle, error)
}

// Clock supplies "today" so derivations are deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// StartForm is the "log new cycle" form as the user submitted it.
// StartDate is the raw field value; parsing it is the first validation.
type StartForm struct {
	StartDate   string
	CycleLength int
	Notes       string
}

// Tracker owns a user's cycle history for the session.
type Tracker struct {
	api   API
	clock Clock
	log   *logging.Logger

	mu     sync.Mutex
	cycles []datatypes.MenstrualCycle
	loaded bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock substitutes the time source (tests).
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLogger replaces the default logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// NewTracker creates a Tracker over the given backend API.
func NewTracker(api API, opts ...Option) *Tracker {
	t := &Tracker{
		api:   api,
		clock: systemClock{},
		log:   logging.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// today returns the current calendar date from the tracker's clock.
func (t *Tracker) today() strfmt.Date {
	return datatypes.DateOf(t.clock.Now())
}

// Refresh refetches the cycle list and replaces the in-memory copy.
// The list is ordered most-recent start date first.
func (t *Tracker) Refresh(ctx context.Context) error {
	cycles, err := t.api.ListCycles(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(cycles, func(i, j int) bool {
		return datatypes.DateAfter(cycles[i].StartDate, cycles[j].StartDate)
	})

	t.mu.Lock()
	t.cycles = cycles
	t.loaded = true
	t.mu.Unlock()
	return nil
}

// List returns the cycle history, most recent first, fetching it when
// the session has not loaded it yet. An empty list is a valid state for
// a new user, not an error.
func (t *Tracker) List(ctx context.Context) ([]datatypes.MenstrualCycle, error) {
	if err := t.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]datatypes.MenstrualCycle, len(t.cycles))
	copy(out, t.cycles)
	return out, nil
}

// Active returns the currently active cycle, or nil.
func (t *Tracker) Active() *datatypes.MenstrualCycle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeLocked()
}

func (t *Tracker) activeLocked() *datatypes.MenstrualCycle {
	for i := range t.cycles {
		if t.cycles[i].Active() {
			c := t.cycles[i]
			return &c
		}
	}
	return nil
}

// displayCycleLocked picks the cycle the view derives day/phase from:
// the active cycle when one exists, otherwise the most recent closed
// one. The list is kept sorted newest-first, so index 0 is the latest.
func (t *Tracker) displayCycleLocked() *datatypes.MenstrualCycle {
	if active := t.activeLocked(); active != nil {
		return active
	}
	if len(t.cycles) == 0 {
		return nil
	}
	c := t.cycles[0]
	return &c
}

// Snapshot derives the current cycle day and phase for display. With no
// history the snapshot is explicitly undetermined (never a zero day).
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	display := t.displayCycleLocked()
	t.mu.Unlock()
	return deriveSnapshot(display, t.today())
}

// StartNew validates and submits a "log new cycle" request.
//
// Client-side preconditions run in order, each with its own error:
//  1. the start date is present and parses (ErrStartDateRequired,
//     ErrStartDateInvalid)
//  2. the start date is not in the future (ErrStartDateInFuture)
//  3. no cycle is currently active (ErrActiveCycleExists)
//  4. the declared length is within bounds (ErrCycleLengthOutOfRange)
//
// No network call is made when validation fails. On success the list is
// refreshed so the new cycle becomes the active one.
func (t *Tracker) StartNew(ctx context.Context, form StartForm) (*datatypes.MenstrualCycle, error) {
	if form.StartDate == "" {
		return nil, ErrStartDateRequired
	}
	start, err := datatypes.ParseDate(form.StartDate)
	if err != nil {
		return nil, ErrStartDateInvalid
	}
	if datatypes.DateAfter(start, t.today()) {
		return nil, ErrStartDateInFuture
	}

	if err := t.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if t.Active() != nil {
		return nil, ErrActiveCycleExists
	}

	if form.CycleLength < datatypes.MinCycleLength || form.CycleLength > datatypes.MaxCycleLength {
		return nil, ErrCycleLengthOutOfRange
	}

	created, err := t.api.CreateCycle(ctx, datatypes.CreateCycleRequest{
		StartDate:   form.StartDate,
		CycleLength: form.CycleLength,
		Notes:       form.Notes,
	})
	if err != nil {
		// Rejected create: the in-memory list stays as it was.
		return nil, err
	}

	t.log.Info("cycle logged", "cycle_id", created.ID, "start_date", form.StartDate)
	if err := t.Refresh(ctx); err != nil {
		t.log.Warn("refresh after create failed", "error", err)
	}
	return created, nil
}

// CloseActive validates and submits an "end cycle" request for the
// currently active cycle.
//
// Preconditions: an active cycle exists (ErrNoActiveCycle); endDate
// parses (ErrEndDateInvalid), is on or after the active cycle's start
// (ErrEndBeforeStart) and not in the future (ErrEndDateInFuture).
func (t *Tracker) CloseActive(ctx context.Context, endDate string) (*datatypes.MenstrualCycle, error) {
	if err := t.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	active := t.Active()
	if active == nil {
		return nil, ErrNoActiveCycle
	}

	end, err := datatypes.ParseDate(endDate)
	if err != nil {
		return nil, ErrEndDateInvalid
	}
	if datatypes.DateBefore(end, active.StartDate) {
		return nil, ErrEndBeforeStart
	}
	if datatypes.DateAfter(end, t.today()) {
		return nil, ErrEndDateInFuture
	}

	updated, err := t.api.UpdateCycle(ctx, active.ID, datatypes.UpdateCycleRequest{
		EndDate: &endDate,
	})
	if err != nil {
		return nil, err
	}

	t.log.Info("cycle closed", "cycle_id", active.ID, "end_date", endDate)
	if err := t.Refresh(ctx); err != nil {
		t.log.Warn("refresh after close failed", "error", err)
	}
	return updated, nil
}

// Predictions returns the backend prediction when available, falling
// back to a client-side estimate from the display cycle when the
// backend has no history (404). With no cycles at all the result is
// explicitly undetermined and err is nil.
func (t *Tracker) Predictions(ctx context.Context) (PredictionResult, error) {
	p, err := t.api.GetPredictions(ctx)
	switch {
	case err == nil:
		return PredictionResult{Prediction: p, Source: SourceBackend}, nil
	case errors.Is(err, gateway.ErrNotFound):
		// Normal "no history yet" state; fall through to the local
		// estimate.
	default:
		return PredictionResult{}, err
	}

	if err := t.ensureLoaded(ctx); err != nil {
		return PredictionResult{}, err
	}
	t.mu.Lock()
	display := t.displayCycleLocked()
	t.mu.Unlock()

	if display == nil {
		return PredictionResult{Source: SourceUndetermined}, nil
	}
	return PredictionResult{
		Prediction: predictFromCycle(display),
		Source:     SourceLocal,
	}, nil
}

func (t *Tracker) ensureLoaded(ctx context.Context) error {
	t.mu.Lock()
	loaded := t.loaded
	t.mu.Unlock()
	if loaded {
		return nil
	}
	return t.Refresh(ctx)
}
