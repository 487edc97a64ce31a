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

// validStatusTransitions is the appointment workflow. Cancellation is
// reachable from any non-terminal status.
var validStatusTransitions = map[string][]string{
	datatypes.AppointmentPending:   {datatypes.AppointmentConfirmed, datatypes.AppointmentCancelled},
	datatypes.AppointmentConfirmed: {datatypes.AppointmentCompleted, datatypes.AppointmentCancelled},
}

// handleListAppointments returns the caller's appointments, soonest
// first. Staff see every appointment; patients only their own.
func (s *Server) handleListAppointments(c *gin.Context) {
	patientID := auth.UserIDFrom(c)
	if auth.HasRole(c, datatypes.RoleStaff) {
		patientID = ""
	}

	appts, err := s.store.AppointmentsByPatient(patientID)
	if err != nil {
		s.log.Error("list appointments failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load appointments"})
		return
	}
	sort.SliceStable(appts, func(i, j int) bool {
		return datatypes.DateBefore(appts[i].Date, appts[j].Date)
	})
	if appts == nil {
		appts = []datatypes.Appointment{}
	}
	c.JSON(http.StatusOK, appts)
}

// handleBookAppointment creates a pending appointment for the caller.
func (s *Server) handleBookAppointment(c *gin.Context) {
	var req datatypes.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department, date and slot are required"})
		return
	}

	date, err := datatypes.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "appointment date is not a valid calendar date"})
		return
	}
	if datatypes.DateBefore(date, datatypes.DateOf(s.today())) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "appointment date cannot be in the past"})
		return
	}

	appt := datatypes.Appointment{
		ID:           uuid.NewString(),
		PatientID:    auth.UserIDFrom(c),
		Department:   req.Department,
		Practitioner: req.Practitioner,
		Date:         date,
		Slot:         req.Slot,
		Status:       datatypes.AppointmentPending,
		Reason:       req.Reason,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.PutAppointment(appt); err != nil {
		s.log.Error("store appointment failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save appointment"})
		return
	}

	s.log.Info("appointment booked", "appointment_id", appt.ID, "patient_id", appt.PatientID)
	c.JSON(http.StatusCreated, appt)
}

// handleUpdateAppointment moves an appointment through its workflow.
// Patients may only cancel their own; staff may apply any valid
// transition.
func (s *Server) handleUpdateAppointment(c *gin.Context) {
	appt, err := s.store.AppointmentByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}

	isStaff := auth.HasRole(c, datatypes.RoleStaff)
	if !isStaff && appt.PatientID != auth.UserIDFrom(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}

	var req datatypes.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Status != nil {
		next := *req.Status
		if !isStaff && next != datatypes.AppointmentCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "patients can only cancel appointments"})
			return
		}
		if !transitionAllowed(appt.Status, next) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot move appointment from " + appt.Status + " to " + next})
			return
		}
		appt.Status = next
	}
	if req.Reason != nil {
		appt.Reason = *req.Reason
	}

	if err := s.store.PutAppointment(*appt); err != nil {
		s.log.Error("store appointment failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save appointment"})
		return
	}

	s.log.Info("appointment updated", "appointment_id", appt.ID, "status", appt.Status)
	c.JSON(http.StatusOK, appt)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range validStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
