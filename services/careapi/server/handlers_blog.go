// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/services/careapi/auth"
)

// handleListPosts returns published posts, newest first, excerpts only.
func (s *Server) handleListPosts(c *gin.Context) {
	posts, err := s.store.Posts()
	if err != nil {
		s.log.Error("list posts failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load posts"})
		return
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	for i := range posts {
		posts[i].Body = ""
	}
	if posts == nil {
		posts = []datatypes.BlogPost{}
	}
	c.JSON(http.StatusOK, posts)
}

// handleGetPost returns one post by slug, body included.
func (s *Server) handleGetPost(c *gin.Context) {
	post, err := s.store.PostBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// handleCreatePost publishes a new post. The slug derives from the
// title; a duplicate slug means a post with that title already exists.
func (s *Server) handleCreatePost(c *gin.Context) {
	var req datatypes.CreateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and body are required"})
		return
	}

	slug := slugify(req.Title)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must contain at least one letter or digit"})
		return
	}
	if _, err := s.store.PostBySlug(slug); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a post with this title already exists"})
		return
	}

	author := "Meridian Health"
	if user, err := s.store.UserByID(auth.UserIDFrom(c)); err == nil {
		author = user.FullName
	}

	post := datatypes.BlogPost{
		Slug:        slug,
		Title:       req.Title,
		Author:      author,
		PublishedAt: s.now().UTC(),
		Excerpt:     req.Excerpt,
		Body:        req.Body,
		Tags:        req.Tags,
	}
	if err := s.store.PutPost(post); err != nil {
		s.log.Error("store post failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save post"})
		return
	}

	s.log.Info("post published", "slug", post.Slug)
	c.JSON(http.StatusCreated, post)
}

// slugify lowercases the title and collapses runs of non-alphanumerics
// into single hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
