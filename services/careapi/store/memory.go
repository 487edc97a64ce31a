// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/meridianhealth/portal/pkg/datatypes"
)

// Memory is the map-backed Store used by tests and the demo seed.
type Memory struct {
	mu sync.RWMutex

	users        map[string]User   // by ID
	usersByEmail map[string]string // email -> ID

	cycles     map[string]datatypes.MenstrualCycle // userID + "/" + cycleID
	cycleOrder []string

	appointments map[string]datatypes.Appointment
	apptOrder    []string

	results     map[string]datatypes.TestResult
	resultOrder []string

	posts     map[string]datatypes.BlogPost
	postOrder []string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:        make(map[string]User),
		usersByEmail: make(map[string]string),
		cycles:       make(map[string]datatypes.MenstrualCycle),
		appointments: make(map[string]datatypes.Appointment),
		results:      make(map[string]datatypes.TestResult),
		posts:        make(map[string]datatypes.BlogPost),
	}
}

func (m *Memory) PutUser(u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.usersByEmail[strings.ToLower(u.Email)] = u.ID
	return nil
}

func (m *Memory) UserByEmail(email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
	}
	u := m.users[id]
	return &u, nil
}

func (m *Memory) UserByID(id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return &u, nil
}

func cycleKey(userID, cycleID string) string {
	return userID + "/" + cycleID
}

func (m *Memory) PutCycle(c datatypes.MenstrualCycle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := cycleKey(c.UserID, c.ID)
	if _, exists := m.cycles[key]; !exists {
		m.cycleOrder = append(m.cycleOrder, key)
	}
	m.cycles[key] = c
	return nil
}

func (m *Memory) CyclesByUser(userID string) ([]datatypes.MenstrualCycle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []datatypes.MenstrualCycle
	for _, key := range m.cycleOrder {
		if strings.HasPrefix(key, userID+"/") {
			out = append(out, m.cycles[key])
		}
	}
	return out, nil
}

func (m *Memory) CycleByID(userID, cycleID string) (*datatypes.MenstrualCycle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cycles[cycleKey(userID, cycleID)]
	if !ok {
		return nil, fmt.Errorf("%w: cycle %s", ErrNotFound, cycleID)
	}
	return &c, nil
}

func (m *Memory) PutAppointment(a datatypes.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.appointments[a.ID]; !exists {
		m.apptOrder = append(m.apptOrder, a.ID)
	}
	m.appointments[a.ID] = a
	return nil
}

func (m *Memory) AppointmentByID(id string) (*datatypes.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
	}
	return &a, nil
}

func (m *Memory) AppointmentsByPatient(patientID string) ([]datatypes.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []datatypes.Appointment
	for _, id := range m.apptOrder {
		a := m.appointments[id]
		if patientID == "" || a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) PutResult(r datatypes.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.results[r.ID]; !exists {
		m.resultOrder = append(m.resultOrder, r.ID)
	}
	m.results[r.ID] = r
	return nil
}

func (m *Memory) ResultByID(id string) (*datatypes.TestResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[id]
	if !ok {
		return nil, fmt.Errorf("%w: result %s", ErrNotFound, id)
	}
	return &r, nil
}

func (m *Memory) ResultsByPatient(patientID string) ([]datatypes.TestResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []datatypes.TestResult
	for _, id := range m.resultOrder {
		r := m.results[id]
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) PutPost(p datatypes.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.posts[p.Slug]; !exists {
		m.postOrder = append(m.postOrder, p.Slug)
	}
	m.posts[p.Slug] = p
	return nil
}

func (m *Memory) PostBySlug(slug string) (*datatypes.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[slug]
	if !ok {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, slug)
	}
	return &p, nil
}

func (m *Memory) Posts() ([]datatypes.BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]datatypes.BlogPost, 0, len(m.postOrder))
	for _, slug := range m.postOrder {
		out = append(out, m.posts[slug])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
