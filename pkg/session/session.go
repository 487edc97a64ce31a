// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session owns the portal's authentication state.
//
// # Description
//
// Session is an explicit object injected into the views, not a hidden
// singleton. Its contract with the rest of the portal is small:
//
//   - it implements gateway.TokenSource ("provide the current bearer
//     credential")
//   - it exposes OnExpired for the global session-expiry callback
//
// Lifecycle: Bootstrap reads the token persisted from a previous login,
// inspects its claims, rejects it if already expired, and fetches the
// profile; Login exchanges credentials for a fresh token and persists
// it; Logout (and a backend 401) clears everything.
//
// The token's signature is NOT verified here. Verification belongs to
// the backend; the client only reads the claims to know who it thinks
// it is and when the token lapses.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/pkg/gateway"
	"github.com/meridianhealth/portal/pkg/logging"
)

// ErrNotAuthenticated is returned when an operation needs a live
// session and none exists.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrTokenExpired is returned by Bootstrap when the persisted token has
// already lapsed.
var ErrTokenExpired = errors.New("stored token has expired")

// Claims are the portal-relevant fields of the bearer token.
type Claims struct {
	UserID    string
	Roles     []string
	ExpiresAt time.Time
}

// Session holds the authenticated user's state for the process.
type Session struct {
	gw        *gateway.Client
	tokenPath string
	log       *logging.Logger

	mu        sync.Mutex
	token     string
	claims    Claims
	profile   *datatypes.UserProfile
	onExpired []func()
}

// Option configures a Session.
type Option func(*Session)

// WithTokenPath overrides where the bearer token is persisted.
// Default: ~/.meridian/token.
func WithTokenPath(path string) Option {
	return func(s *Session) { s.tokenPath = path }
}

// WithLogger replaces the default logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New creates a Session bound to a gateway client. It registers itself
// as the gateway's token source and 401 hook.
func New(gw *gateway.Client, opts ...Option) *Session {
	s := &Session{
		gw:  gw,
		log: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tokenPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.tokenPath = filepath.Join(home, ".meridian", "token")
		}
	}
	gw.SetTokenSource(s)
	gw.SetSessionExpiredHook(s.handleExpired)
	return s
}

// Token implements gateway.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether a live session exists.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Roles returns the session's role list; empty when unauthenticated.
func (s *Session) Roles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.claims.Roles))
	copy(out, s.claims.Roles)
	return out
}

// Profile returns the profile fetched at login/bootstrap, or nil.
func (s *Session) Profile() *datatypes.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// OnExpired registers a callback fired when the backend rejects the
// session (401). Callbacks run on the goroutine of the failing request.
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = append(s.onExpired, fn)
}

// Login exchanges credentials for a bearer token, persists it, and
// fetches the user profile.
func (s *Session) Login(ctx context.Context, email, password string) error {
	var resp datatypes.LoginResponse
	err := s.gw.Post(ctx, "/v1/auth/login", datatypes.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}

	claims, err := parseClaims(resp.Token)
	if err != nil {
		return fmt.Errorf("backend issued an unreadable token: %w", err)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.claims = claims
	s.mu.Unlock()

	if err := s.fetchProfile(ctx); err != nil {
		return err
	}
	if err := s.persistToken(resp.Token); err != nil {
		s.log.Warn("could not persist session token", "error", err)
	}
	s.log.Info("logged in", "user_id", claims.UserID, "roles", claims.Roles)
	return nil
}

// Bootstrap restores a session from the persisted token. Returns
// ErrNotAuthenticated when no token is stored and ErrTokenExpired when
// the stored one has lapsed.
func (s *Session) Bootstrap(ctx context.Context) error {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("read token file: %w", err)
	}

	token := string(data)
	claims, err := parseClaims(token)
	if err != nil {
		// A corrupt token file is the same as no session.
		_ = os.Remove(s.tokenPath)
		return ErrNotAuthenticated
	}
	if !claims.ExpiresAt.IsZero() && time.Now().After(claims.ExpiresAt) {
		_ = os.Remove(s.tokenPath)
		return ErrTokenExpired
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.mu.Unlock()

	return s.fetchProfile(ctx)
}

// Logout clears the in-memory session and removes the persisted token.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.claims = Claims{}
	s.profile = nil
	s.mu.Unlock()

	if s.tokenPath == "" {
		return nil
	}
	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// handleExpired is the gateway's 401 hook: clear state, drop the stored
// token, then notify listeners (the CLI redirects to login).
func (s *Session) handleExpired() {
	s.mu.Lock()
	s.token = ""
	s.claims = Claims{}
	s.profile = nil
	callbacks := make([]func(), len(s.onExpired))
	copy(callbacks, s.onExpired)
	s.mu.Unlock()

	if s.tokenPath != "" {
		_ = os.Remove(s.tokenPath)
	}
	s.log.Warn("session expired, cleared credentials")
	for _, fn := range callbacks {
		fn()
	}
}

func (s *Session) fetchProfile(ctx context.Context) error {
	var profile datatypes.UserProfile
	if err := s.gw.Get(ctx, "/v1/me", &profile); err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	return nil
}

func (s *Session) persistToken(token string) error {
	if s.tokenPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath, []byte(token), 0o600)
}

// parseClaims reads the token's claims without verifying its signature.
func parseClaims(token string) (Claims, error) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, err
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("unexpected claims shape")
	}

	claims := Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.UserID = sub
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if raw, ok := mapClaims["roles"].([]any); ok {
		for _, r := range raw {
			if role, ok := r.(string); ok {
				claims.Roles = append(claims.Roles, role)
			}
		}
	}
	return claims, nil
}
