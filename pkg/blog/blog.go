// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package blog is the portal client for the public blog endpoints.
// Reading needs no session; publishing is staff/admin only.
package blog

import (
	"context"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/pkg/gateway"
)

// Client calls the /v1/blog endpoints.
type Client struct {
	gw *gateway.Client
}

// NewClient wraps a gateway client with the blog endpoints.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// List fetches published posts, newest first. Excerpts only; use Get
// for the full body.
func (c *Client) List(ctx context.Context) ([]datatypes.BlogPost, error) {
	var out []datatypes.BlogPost
	if err := c.gw.Get(ctx, "/v1/blog", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one post by slug, body included.
func (c *Client) Get(ctx context.Context, slug string) (*datatypes.BlogPost, error) {
	var p datatypes.BlogPost
	if err := c.gw.Get(ctx, "/v1/blog/"+slug, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Publish creates a new post. The backend derives the slug from the
// title and stamps the publish time.
func (c *Client) Publish(ctx context.Context, req datatypes.CreateBlogPostRequest) (*datatypes.BlogPost, error) {
	var created datatypes.BlogPost
	if err := c.gw.Post(ctx, "/v1/blog", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
