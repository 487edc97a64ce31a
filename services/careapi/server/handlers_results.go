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

// handleListResults returns the caller's released results, newest
// release first. The value breakdown is omitted from the list; GET by
// ID returns the full record.
func (s *Server) handleListResults(c *gin.Context) {
	results, err := s.store.ResultsByPatient(auth.UserIDFrom(c))
	if err != nil {
		s.log.Error("list results failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load results"})
		return
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ReleasedAt.After(results[j].ReleasedAt)
	})
	for i := range results {
		results[i].Values = nil
	}
	if results == nil {
		results = []datatypes.TestResult{}
	}
	c.JSON(http.StatusOK, results)
}

// handleGetResult returns one result in full. Patients can only read
// their own; staff can read any.
func (s *Server) handleGetResult(c *gin.Context) {
	result, err := s.store.ResultByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	if !auth.HasRole(c, datatypes.RoleStaff) && result.PatientID != auth.UserIDFrom(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// handlePublishResult releases a result to a patient. Staff only
// (enforced by the route's role gate).
func (s *Server) handlePublishResult(c *gin.Context) {
	var req datatypes.PublishResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patient_id, test_name and collected_at are required"})
		return
	}

	collected, err := datatypes.ParseDate(req.CollectedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collection date is not a valid calendar date"})
		return
	}
	if _, err := s.store.UserByID(req.PatientID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown patient"})
		return
	}

	result := datatypes.TestResult{
		ID:          uuid.NewString(),
		PatientID:   req.PatientID,
		TestName:    req.TestName,
		CollectedAt: collected,
		ReleasedAt:  s.now().UTC(),
		Summary:     req.Summary,
		Values:      req.Values,
	}
	if err := s.store.PutResult(result); err != nil {
		s.log.Error("store result failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save result"})
		return
	}

	s.log.Info("result published", "result_id", result.ID, "patient_id", result.PatientID)
	c.JSON(http.StatusCreated, result)
}
