// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store persists careapi's records. Two implementations share
// the Store interface: an in-memory map store for tests and demos, and
// a Badger-backed store for real deployments.
package store

import (
	"errors"

	"github.com/meridianhealth/portal/pkg/datatypes"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// User is a portal account as persisted. PasswordHash is a bcrypt hash;
// the plaintext never touches the store.
type User struct {
	ID           string   `json:"user_id"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	PasswordHash []byte   `json:"password_hash"`
	Roles        []string `json:"roles"`
}

// Profile converts the stored user to its wire shape.
func (u *User) Profile() datatypes.UserProfile {
	return datatypes.UserProfile{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Roles:    u.Roles,
	}
}

// Store is the persistence surface the handlers depend on. All methods
// are safe for concurrent use. Listing methods return records in
// insertion order; handlers sort for presentation.
type Store interface {
	// PutUser inserts or replaces a user.
	PutUser(u User) error
	// UserByEmail looks a user up by their login email.
	UserByEmail(email string) (*User, error)
	// UserByID looks a user up by ID.
	UserByID(id string) (*User, error)

	// PutCycle inserts or replaces a cycle, keyed by owner and ID.
	PutCycle(c datatypes.MenstrualCycle) error
	// CyclesByUser returns all of one user's cycles.
	CyclesByUser(userID string) ([]datatypes.MenstrualCycle, error)
	// CycleByID returns one of the user's cycles.
	CycleByID(userID, cycleID string) (*datatypes.MenstrualCycle, error)

	// PutAppointment inserts or replaces an appointment.
	PutAppointment(a datatypes.Appointment) error
	// AppointmentByID returns one appointment.
	AppointmentByID(id string) (*datatypes.Appointment, error)
	// AppointmentsByPatient returns one patient's appointments; an empty
	// patientID returns every appointment (staff view).
	AppointmentsByPatient(patientID string) ([]datatypes.Appointment, error)

	// PutResult inserts or replaces a test result.
	PutResult(r datatypes.TestResult) error
	// ResultByID returns one result.
	ResultByID(id string) (*datatypes.TestResult, error)
	// ResultsByPatient returns one patient's results.
	ResultsByPatient(patientID string) ([]datatypes.TestResult, error)

	// PutPost inserts or replaces a blog post, keyed by slug.
	PutPost(p datatypes.BlogPost) error
	// PostBySlug returns one post.
	PostBySlug(slug string) (*datatypes.BlogPost, error)
	// Posts returns all published posts.
	Posts() ([]datatypes.BlogPost, error)

	// Close releases the store's resources.
	Close() error
}
