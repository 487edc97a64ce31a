// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package blog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/portal/pkg/gateway"
)

func TestListRequiresNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"slug":"cycle-health-basics","title":"Cycle Health Basics","author":"Dr. Okafor"}]`))
	}))
	defer srv.Close()

	client := NewClient(gateway.New(srv.URL))
	posts, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "cycle-health-basics", posts[0].Slug)
}

func TestGetBySlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/blog/cycle-health-basics", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"slug":"cycle-health-basics","title":"Cycle Health Basics","body":"Full article text."}`))
	}))
	defer srv.Close()

	client := NewClient(gateway.New(srv.URL))
	post, err := client.Get(context.Background(), "cycle-health-basics")
	require.NoError(t, err)
	assert.Equal(t, "Full article text.", post.Body)
}
