// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package routing implements the portal's role-gated navigation table.
//
// Resolution is a pure function over a declarative table: given a route
// and the session's roles it yields Allow, Deny, or Redirect. It holds
// no UI state and no framework dependency, so the same table guards the
// CLI commands today and could guard any other front end unchanged.
package routing

import "sort"

// Decision is the outcome of resolving a route against a role set.
type Decision int

const (
	// Allow lets navigation proceed.
	Allow Decision = iota
	// Deny blocks navigation; the user is authenticated but lacks the role.
	Deny
	// Redirect sends the user elsewhere (unauthenticated -> login).
	Redirect
)

// String returns "allow", "deny" or "redirect".
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "redirect"
	}
}

// Resolution is a Decision plus the redirect target when applicable.
type Resolution struct {
	Decision Decision
	Target   string
}

// Rule gates one route. An empty Roles list with Public=false means
// "any authenticated user".
type Rule struct {
	Route  string
	Public bool
	Roles  []string
}

// Table is the portal's navigation table.
type Table struct {
	rules      map[string]Rule
	loginRoute string
}

// NewTable builds a Table from rules. loginRoute is where
// unauthenticated users are redirected.
func NewTable(loginRoute string, rules []Rule) *Table {
	t := &Table{
		rules:      make(map[string]Rule, len(rules)),
		loginRoute: loginRoute,
	}
	for _, r := range rules {
		t.rules[r.Route] = r
	}
	return t
}

// Default returns the portal's navigation table.
func Default() *Table {
	return NewTable("/login", []Rule{
		{Route: "/login", Public: true},
		{Route: "/blog", Public: true},
		{Route: "/dashboard"},
		{Route: "/profile"},
		{Route: "/cycles", Roles: []string{"patient"}},
		{Route: "/appointments", Roles: []string{"patient", "staff"}},
		{Route: "/results", Roles: []string{"patient", "staff"}},
		{Route: "/results/publish", Roles: []string{"staff"}},
		{Route: "/blog/manage", Roles: []string{"staff", "admin"}},
		{Route: "/admin", Roles: []string{"admin"}},
	})
}

// Resolve evaluates a route against the session's roles.
//
// Rules, in order:
//  1. unknown route: Deny
//  2. public route: Allow, authenticated or not
//  3. unauthenticated (no roles): Redirect to the login route
//  4. rule with no role list: Allow any authenticated user
//  5. otherwise Allow iff the session holds one of the rule's roles
func (t *Table) Resolve(route string, roles []string) Resolution {
	rule, ok := t.rules[route]
	if !ok {
		return Resolution{Decision: Deny}
	}
	if rule.Public {
		return Resolution{Decision: Allow}
	}
	if len(roles) == 0 {
		return Resolution{Decision: Redirect, Target: t.loginRoute}
	}
	if len(rule.Roles) == 0 {
		return Resolution{Decision: Allow}
	}
	for _, need := range rule.Roles {
		for _, have := range roles {
			if need == have {
				return Resolution{Decision: Allow}
			}
		}
	}
	return Resolution{Decision: Deny}
}

// Routes lists the table's known routes, sorted, for help output.
func (t *Table) Routes() []string {
	out := make([]string, 0, len(t.rules))
	for route := range t.rules {
		out = append(out, route)
	}
	sort.Strings(out)
	return out
}
