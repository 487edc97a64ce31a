// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cycle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/pkg/gateway"
)

func TestClientListCycles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/cycles", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"cycle_id":"c-1","start_date":"2025-01-01","cycle_length":28}]`))
	}))
	defer srv.Close()

	client := NewClient(gateway.New(srv.URL))
	cycles, err := client.ListCycles(context.Background())
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, "c-1", cycles[0].ID)
	assert.Equal(t, "2025-01-01", cycles[0].StartDate.String())
	assert.True(t, cycles[0].Active())
}

func TestClientGetPredictionsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/cycles/predictions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no cycle history"}`))
	}))
	defer srv.Close()

	client := NewClient(gateway.New(srv.URL))
	_, err := client.GetPredictions(context.Background())
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestClientCreateCycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/cycles", r.URL.Path)

		var req datatypes.CreateCycleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2025-01-10", req.StartDate)
		assert.Equal(t, 28, req.CycleLength)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"cycle_id":"c-9","start_date":"2025-01-10","cycle_length":28}`))
	}))
	defer srv.Close()

	client := NewClient(gateway.New(srv.URL))
	created, err := client.CreateCycle(context.Background(), datatypes.CreateCycleRequest{
		StartDate:   "2025-01-10",
		CycleLength: 28,
	})
	require.NoError(t, err)
	assert.Equal(t, "c-9", created.ID)
}

func TestClientUpdateCycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/cycles/c-9", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cycle_id":"c-9","start_date":"2025-01-10","end_date":"2025-01-15","cycle_length":28}`))
	}))
	defer srv.Close()

	end := "2025-01-15"
	client := NewClient(gateway.New(srv.URL))
	updated, err := client.UpdateCycle(context.Background(), "c-9", datatypes.UpdateCycleRequest{EndDate: &end})
	require.NoError(t, err)
	require.NotNil(t, updated.EndDate)
	assert.False(t, updated.Active())
}
