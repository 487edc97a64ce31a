// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cycle

import (
	"context"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/pkg/gateway"
)

// Client implements API over the REST gateway.
type Client struct {
	gw *gateway.Client
}

// NewClient wraps a gateway client with the cycle endpoints.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

var _ API = (*Client)(nil)

// ListCycles calls GET /v1/cycles.
func (c *Client) ListCycles(ctx context.Context) ([]datatypes.MenstrualCycle, error) {
	var cycles []datatypes.MenstrualCycle
	if err := c.gw.Get(ctx, "/v1/cycles", &cycles); err != nil {
		return nil, err
	}
	return cycles, nil
}

// GetPredictions calls GET /v1/cycles/predictions. A 404 surfaces as
// gateway.ErrNotFound, which the tracker treats as "no history yet".
func (c *Client) GetPredictions(ctx context.Context) (*datatypes.CyclePrediction, error) {
	var p datatypes.CyclePrediction
	if err := c.gw.Get(ctx, "/v1/cycles/predictions", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateCycle calls POST /v1/cycles.
func (c *Client) CreateCycle(ctx context.Context, req datatypes.CreateCycleRequest) (*datatypes.MenstrualCycle, error) {
	var created datatypes.MenstrualCycle
	if err := c.gw.Post(ctx, "/v1/cycles", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCycle calls PATCH /v1/cycles/{id}.
func (c *Client) UpdateCycle(ctx context.Context, id string, req datatypes.UpdateCycleRequest) (*datatypes.MenstrualCycle, error) {
	var updated datatypes.MenstrualCycle
	if err := c.gw.Patch(ctx, "/v1/cycles/"+id, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
