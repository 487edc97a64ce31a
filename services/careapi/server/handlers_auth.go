// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/services/careapi/auth"
)

// handleLogin verifies credentials and mints a session token.
// Wrong email and wrong password return the same message, so the
// endpoint does not reveal which accounts exist.
func (s *Server) handleLogin(c *gin.Context) {
	var req datatypes.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := s.store.UserByEmail(req.Email)
	if err != nil {
		s.metrics.LoginFailed()
		s.log.Warn("login failed", "email", req.Email)
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.metrics.LoginFailed()
		s.log.Warn("login failed", "email", req.Email)
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}

	token, expiresAt, err := s.issuer.Issue(user.ID, user.Roles)
	if err != nil {
		s.log.Error("token issue failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	s.log.Info("login", "user_id", user.ID)
	c.JSON(http.StatusOK, datatypes.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// handleMe returns the authenticated user's profile.
func (s *Server) handleMe(c *gin.Context) {
	user, err := s.store.UserByID(auth.UserIDFrom(c))
	if err != nil {
		// Token validated but the account is gone; treat as expired.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
		return
	}
	c.JSON(http.StatusOK, user.Profile())
}
