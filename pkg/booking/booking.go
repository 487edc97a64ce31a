// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package booking is the portal client for the appointment endpoints.
// It is a thin wrapper over the REST gateway: validation and workflow
// rules live server-side, and mutations are fire-and-refetch like the
// rest of the portal.
package booking

import (
	"context"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/pkg/gateway"
)

// Client calls the /v1/appointments endpoints.
type Client struct {
	gw *gateway.Client
}

// NewClient wraps a gateway client with the appointment endpoints.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// List fetches the caller's appointments. Patients see their own;
// staff see every appointment.
func (c *Client) List(ctx context.Context) ([]datatypes.Appointment, error) {
	var out []datatypes.Appointment
	if err := c.gw.Get(ctx, "/v1/appointments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Book submits a new appointment request. It comes back in status
// "pending" until staff confirm it.
func (c *Client) Book(ctx context.Context, req datatypes.BookAppointmentRequest) (*datatypes.Appointment, error) {
	var created datatypes.Appointment
	if err := c.gw.Post(ctx, "/v1/appointments", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update amends an appointment's status or reason.
func (c *Client) Update(ctx context.Context, id string, req datatypes.UpdateAppointmentRequest) (*datatypes.Appointment, error) {
	var updated datatypes.Appointment
	if err := c.gw.Patch(ctx, "/v1/appointments/"+id, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Cancel moves an appointment to status "cancelled".
func (c *Client) Cancel(ctx context.Context, id string) (*datatypes.Appointment, error) {
	status := datatypes.AppointmentCancelled
	return c.Update(ctx, id, datatypes.UpdateAppointmentRequest{Status: &status})
}
