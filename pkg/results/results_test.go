// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package results

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/portal/pkg/gateway"
)

func TestListAndGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/results":
			_, _ = w.Write([]byte(`[{"result_id":"r-1","test_name":"CBC","collected_at":"2025-05-01"}]`))
		case "/v1/results/r-1":
			_, _ = w.Write([]byte(`{"result_id":"r-1","test_name":"CBC","collected_at":"2025-05-01","values":[{"name":"Hemoglobin","value":"13.5","unit":"g/dL","flag":""}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}
	}))
	defer srv.Close()

	client := NewClient(gateway.New(srv.URL))
	ctx := context.Background()

	list, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Values, "list omits value breakdowns")

	full, err := client.Get(ctx, "r-1")
	require.NoError(t, err)
	require.Len(t, full.Values, 1)
	assert.Equal(t, "Hemoglobin", full.Values[0].Name)

	_, err = client.Get(ctx, "r-2")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}
