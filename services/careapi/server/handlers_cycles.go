// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/services/careapi/auth"
)

// Assumed luteal phase and fertility window offsets, in days.
const (
	lutealPhaseDays     = 14
	fertileLeadDays     = 4
	fertileTrailingDays = 1
)

// handleListCycles returns the caller's cycles, most recent start first.
func (s *Server) handleListCycles(c *gin.Context) {
	cycles, err := s.store.CyclesByUser(auth.UserIDFrom(c))
	if err != nil {
		s.log.Error("list cycles failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cycles"})
		return
	}
	sort.SliceStable(cycles, func(i, j int) bool {
		return datatypes.DateAfter(cycles[i].StartDate, cycles[j].StartDate)
	})
	if cycles == nil {
		cycles = []datatypes.MenstrualCycle{}
	}
	c.JSON(http.StatusOK, cycles)
}

// handleCreateCycle validates and stores a new cycle. The server
// enforces the same rules the portal client checks, so direct API
// callers cannot corrupt the history.
func (s *Server) handleCreateCycle(c *gin.Context) {
	var req datatypes.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date is required"})
		return
	}

	start, err := datatypes.ParseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start date is not a valid calendar date"})
		return
	}
	if datatypes.DateAfter(start, datatypes.DateOf(s.today())) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start date cannot be in the future"})
		return
	}

	length := req.CycleLength
	if length == 0 {
		length = datatypes.DefaultCycleLength
	}
	if length < datatypes.MinCycleLength || length > datatypes.MaxCycleLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cycle length must be between 21 and 35 days"})
		return
	}

	userID := auth.UserIDFrom(c)
	existing, err := s.store.CyclesByUser(userID)
	if err != nil {
		s.log.Error("list cycles failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cycles"})
		return
	}
	for _, prior := range existing {
		if prior.Active() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "current cycle must be ended before logging a new one"})
			return
		}
	}

	cycle := datatypes.MenstrualCycle{
		ID:          uuid.NewString(),
		UserID:      userID,
		StartDate:   start,
		CycleLength: length,
		Notes:       req.Notes,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.PutCycle(cycle); err != nil {
		s.log.Error("store cycle failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save cycle"})
		return
	}

	s.metrics.CycleLogged()
	s.log.Info("cycle created", "user_id", userID, "cycle_id", cycle.ID)
	c.JSON(http.StatusCreated, cycle)
}

// handleUpdateCycle amends one of the caller's cycles: setting end_date
// closes it, notes can be rewritten. Records stay owner-scoped; another
// user's cycle ID is a 404, not a 403, so IDs are not probeable.
func (s *Server) handleUpdateCycle(c *gin.Context) {
	userID := auth.UserIDFrom(c)
	cycle, err := s.store.CycleByID(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cycle not found"})
		return
	}

	var req datatypes.UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.EndDate != nil {
		end, err := datatypes.ParseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end date is not a valid calendar date"})
			return
		}
		if datatypes.DateBefore(end, cycle.StartDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end date cannot be before the cycle start date"})
			return
		}
		if datatypes.DateAfter(end, datatypes.DateOf(s.today())) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end date cannot be in the future"})
			return
		}
		cycle.EndDate = &end
	}
	if req.Notes != nil {
		cycle.Notes = *req.Notes
	}

	if err := s.store.PutCycle(*cycle); err != nil {
		s.log.Error("store cycle failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save cycle"})
		return
	}

	s.log.Info("cycle updated", "user_id", userID, "cycle_id", cycle.ID)
	c.JSON(http.StatusOK, cycle)
}

// handlePredictions computes the next period, ovulation and fertility
// window from the caller's current cycle (the active one, else the most
// recent). No history is a 404: a normal state for new users, which the
// portal renders as "no data yet" rather than an error.
func (s *Server) handlePredictions(c *gin.Context) {
	cycles, err := s.store.CyclesByUser(auth.UserIDFrom(c))
	if err != nil {
		s.log.Error("list cycles failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cycles"})
		return
	}
	if len(cycles) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cycle history"})
		return
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		return datatypes.DateAfter(cycles[i].StartDate, cycles[j].StartDate)
	})
	current := cycles[0]
	for i := range cycles {
		if cycles[i].Active() {
			current = cycles[i]
			break
		}
	}

	length := current.DeclaredLength()
	nextPeriod := datatypes.AddDays(current.StartDate, length)
	ovulation := datatypes.AddDays(current.StartDate, length-lutealPhaseDays)
	c.JSON(http.StatusOK, datatypes.CyclePrediction{
		NextPeriodDate:       nextPeriod,
		OvulationDate:        ovulation,
		FertilityWindowStart: datatypes.AddDays(ovulation, -fertileLeadDays),
		FertilityWindowEnd:   datatypes.AddDays(ovulation, fertileTrailingDays),
	})
}
