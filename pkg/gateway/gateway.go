// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gateway is the portal's generic REST client.
//
// # Description
//
// Every backend call in the portal goes through a single Client that
// owns the cross-cutting concerns the feature packages must not
// re-implement:
//
//   - bearer-token injection from a TokenSource
//   - classification of failures into the portal error taxonomy
//     (session expiry, not-found, validation, unreachable)
//   - a global 401 hook so session expiry is handled in exactly one
//     place instead of in every screen
//
// The feature packages (cycle, booking, results, blog) are thin typed
// wrappers over Get/Post/Patch/Delete.
//
// # Error Contract
//
//   - 401: the OnSessionExpired hook fires, ErrSessionExpired returns
//   - 404: ErrNotFound returns (predictions treat this as "no history")
//   - other 4xx/5xx: *APIError with the server's "error" message, or a
//     generic fallback when the body had none
//   - transport failure: wrapped ErrUnreachable
//
// # Thread Safety
//
// Client is safe for concurrent use; it holds no per-request state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meridianhealth/portal/pkg/logging"
)

// TokenSource supplies the current bearer credential. An empty token
// means "call unauthenticated" (login, public blog reads).
type TokenSource interface {
	Token() string
}

// defaultTimeout bounds any single portal request. Individual calls can
// tighten this further through their context.
const defaultTimeout = 30 * time.Second

// Client is the portal's HTTP/JSON gateway to the careapi backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logging.Logger

	// onSessionExpired runs once per 401 response, before
	// ErrSessionExpired is returned to the caller.
	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (tests, custom
// transports).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource wires the session that supplies bearer tokens.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithSessionExpiredHook registers the global 401 handler.
func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// WithLogger replaces the default logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a gateway Client for the given backend base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetTokenSource wires the token source after construction. The session
// and the gateway reference each other (the session logs in through the
// gateway), so one side has to be attached late.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetSessionExpiredHook registers the global 401 handler after
// construction.
func (c *Client) SetSessionExpiredHook(fn func()) {
	c.onSessionExpired = fn
}

// Get performs a GET and decodes the JSON response into out (out may be
// nil to discard the body).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch performs a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		c.log.Warn("session rejected by backend", "method", method, "path", path)
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return ErrSessionExpired

	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)

	default:
		msg := decodeServerMessage(resp.Body)
		if msg == "" {
			msg = genericFailureMessage
		}
		c.log.Warn("backend rejected request",
			"method", method, "path", path, "status", resp.StatusCode, "message", msg)
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
}

// decodeServerMessage pulls the "error" field out of a failure body.
// The careapi service reports failures as {"error": "..."}.
func decodeServerMessage(r io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// staticToken is a TokenSource for a fixed token (tests, scripts).
type staticToken string

func (s staticToken) Token() string { return string(s) }

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return staticToken(token)
}
