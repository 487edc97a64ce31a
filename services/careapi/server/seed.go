// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"fmt"
	"time"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/services/careapi/auth"
	"github.com/meridianhealth/portal/services/careapi/store"
)

// demoAccounts are the accounts created by SeedDemo. Passwords are
// hard-coded because the seed exists for local demos and tests only.
var demoAccounts = []struct {
	id       string
	email    string
	name     string
	password string
	roles    []string
}{
	{"usr-patient-demo", "patient@demo.meridianhealth.io", "Pat Rivera", "patient-demo-pw", []string{datatypes.RolePatient}},
	{"usr-staff-demo", "staff@demo.meridianhealth.io", "Sam Okafor", "staff-demo-pw", []string{datatypes.RoleStaff}},
	{"usr-admin-demo", "admin@demo.meridianhealth.io", "Alex Chen", "admin-demo-pw", []string{datatypes.RoleStaff, datatypes.RoleAdmin}},
}

// SeedDemo populates a store with demo accounts and starter content.
// Safe to call on every boot; existing records are overwritten with the
// same values.
func SeedDemo(st store.Store) error {
	for _, acct := range demoAccounts {
		hash, err := auth.HashPassword(acct.password)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		if err := st.PutUser(store.User{
			ID:           acct.id,
			Email:        acct.email,
			FullName:     acct.name,
			PasswordHash: hash,
			Roles:        acct.roles,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", acct.email, err)
		}
	}

	posts := []datatypes.BlogPost{
		{
			Slug:        "understanding-your-cycle-phases",
			Title:       "Understanding Your Cycle Phases",
			Author:      "Sam Okafor",
			PublishedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			Excerpt:     "What the menstrual, follicular, ovulatory and luteal phases mean for your body.",
			Body:        "Each cycle moves through four phases...",
			Tags:        []string{"cycle-health", "education"},
		},
		{
			Slug:        "when-to-talk-to-your-provider",
			Title:       "When to Talk to Your Provider",
			Author:      "Sam Okafor",
			PublishedAt: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
			Excerpt:     "Cycle changes that are worth a conversation with your care team.",
			Body:        "Most cycle variation is normal, but...",
			Tags:        []string{"cycle-health"},
		},
	}
	for _, p := range posts {
		if err := st.PutPost(p); err != nil {
			return fmt.Errorf("seed post %s: %w", p.Slug, err)
		}
	}
	return nil
}
