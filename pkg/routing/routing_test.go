// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	table := Default()

	tests := []struct {
		name   string
		route  string
		roles  []string
		want   Decision
		target string
	}{
		{"public route unauthenticated", "/blog", nil, Allow, ""},
		{"public route authenticated", "/blog", []string{"patient"}, Allow, ""},
		{"protected route unauthenticated", "/cycles", nil, Redirect, "/login"},
		{"patient route with patient role", "/cycles", []string{"patient"}, Allow, ""},
		{"patient route with staff role", "/cycles", []string{"staff"}, Deny, ""},
		{"shared route either role", "/appointments", []string{"staff"}, Allow, ""},
		{"any-authenticated route", "/dashboard", []string{"staff"}, Allow, ""},
		{"admin route non-admin", "/admin", []string{"patient", "staff"}, Deny, ""},
		{"admin route admin", "/admin", []string{"admin"}, Allow, ""},
		{"staff publish route", "/results/publish", []string{"patient"}, Deny, ""},
		{"unknown route", "/nonexistent", []string{"admin"}, Deny, ""},
		{"multi-role user", "/results/publish", []string{"patient", "staff"}, Allow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := table.Resolve(tt.route, tt.roles)
			assert.Equal(t, tt.want, res.Decision)
			assert.Equal(t, tt.target, res.Target)
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	table := Default()
	first := table.Resolve("/cycles", []string{"patient"})
	second := table.Resolve("/cycles", []string{"patient"})
	assert.Equal(t, first, second)
}

func TestRoutesSorted(t *testing.T) {
	routes := Default().Routes()
	assert.Contains(t, routes, "/cycles")
	assert.Contains(t, routes, "/admin")
	for i := 1; i < len(routes); i++ {
		assert.LessOrEqual(t, routes[i-1], routes[i])
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
	assert.Equal(t, "redirect", Redirect.String())
}
