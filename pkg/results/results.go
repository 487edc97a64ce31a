// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package results is the portal client for the test-result endpoints.
// Patients list and read their released results; staff publish them.
package results

import (
	"context"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/pkg/gateway"
)

// Client calls the /v1/results endpoints.
type Client struct {
	gw *gateway.Client
}

// NewClient wraps a gateway client with the result endpoints.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// List fetches the caller's released results, newest release first.
func (c *Client) List(ctx context.Context) ([]datatypes.TestResult, error) {
	var out []datatypes.TestResult
	if err := c.gw.Get(ctx, "/v1/results", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one result with its full value breakdown.
func (c *Client) Get(ctx context.Context, id string) (*datatypes.TestResult, error) {
	var r datatypes.TestResult
	if err := c.gw.Get(ctx, "/v1/results/"+id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Publish releases a result to a patient. Staff only; the backend
// enforces the role.
func (c *Client) Publish(ctx context.Context, req datatypes.PublishResultRequest) (*datatypes.TestResult, error) {
	var created datatypes.TestResult
	if err := c.gw.Post(ctx, "/v1/results", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
