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

// Portal roles. A user carries one or more of these in their session.
const (
	RolePatient = "patient"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// UserProfile is the authenticated user's identity as returned by
// GET /v1/me. The client fetches it once during session bootstrap.
type UserProfile struct {
	ID       string   `json:"user_id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the profile carries the given role.
func (p *UserProfile) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// LoginRequest is the credential payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token for subsequent calls.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Appointment statuses, in workflow order.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booked visit with a practitioner.
type Appointment struct {
	ID           string      `json:"appointment_id"`
	PatientID    string      `json:"patient_id"`
	Department   string      `json:"department"`
	Practitioner string      `json:"practitioner"`
	Date         strfmt.Date `json:"date"`
	Slot         string      `json:"slot"`
	Status       string      `json:"status"`
	Reason       string      `json:"reason,omitempty"`
	CreatedAt    time.Time   `json:"created_at,omitempty"`
}

// BookAppointmentRequest is the payload for POST /v1/appointments.
type BookAppointmentRequest struct {
	Department   string `json:"department" binding:"required"`
	Practitioner string `json:"practitioner,omitempty"`
	Date         string `json:"date" binding:"required"`
	Slot         string `json:"slot" binding:"required,timeslot"`
	Reason       string `json:"reason,omitempty"`
}

// UpdateAppointmentRequest moves an appointment through its workflow
// (staff confirm/complete) or amends the reason.
type UpdateAppointmentRequest struct {
	Status *string `json:"status,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// ResultValue is one measured analyte inside a test result.
type ResultValue struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
	Flag           string `json:"flag,omitempty"` // "", "low", "high", "abnormal"
}

// TestResult is a released lab result visible to its patient.
type TestResult struct {
	ID          string        `json:"result_id"`
	PatientID   string        `json:"patient_id"`
	TestName    string        `json:"test_name"`
	CollectedAt strfmt.Date   `json:"collected_at"`
	ReleasedAt  time.Time     `json:"released_at"`
	Summary     string        `json:"summary,omitempty"`
	Values      []ResultValue `json:"values,omitempty"`
}

// PublishResultRequest is the staff payload for POST /v1/results.
type PublishResultRequest struct {
	PatientID   string        `json:"patient_id" binding:"required"`
	TestName    string        `json:"test_name" binding:"required"`
	CollectedAt string        `json:"collected_at" binding:"required"`
	Summary     string        `json:"summary,omitempty"`
	Values      []ResultValue `json:"values,omitempty"`
}

// BlogPost is one article in the portal's blog subsystem.
type BlogPost struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Body        string    `json:"body,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// CreateBlogPostRequest is the staff payload for POST /v1/blog.
type CreateBlogPostRequest struct {
	Title   string   `json:"title" binding:"required"`
	Excerpt string   `json:"excerpt,omitempty"`
	Body    string   `json:"body" binding:"required"`
	Tags    []string `json:"tags,omitempty"`
}
