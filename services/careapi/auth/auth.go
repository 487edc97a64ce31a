// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package auth issues and verifies careapi session tokens and provides
// the gin middleware that gates authenticated routes.
//
// Tokens are HS256 JWTs carrying the user ID (sub), roles and expiry.
// Role checks happen per-route via RequireRole; the token is the single
// source of role truth for a session.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Context keys set by Middleware for downstream handlers.
const (
	CtxUserID = "auth_user_id"
	CtxRoles  = "auth_roles"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password.
	// The two cases share one error so responses do not reveal which
	// accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenInvalid covers malformed, forged and expired tokens.
	ErrTokenInvalid = errors.New("session token is invalid")
)

// Issuer mints and verifies session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer with the given signing secret and token
// lifetime.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Claims are the verified contents of a session token.
type Claims struct {
	UserID    string
	Roles     []string
	ExpiresAt time.Time
}

// Issue mints a token for the user.
func (i *Issuer) Issue(userID string, roles []string) (token string, expiresAt time.Time, err error) {
	expiresAt = time.Now().Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"roles": roles,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	})
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token, returning its claims.
func (i *Issuer) Verify(token string) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{UserID: sub}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if raw, ok := mc["roles"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				claims.Roles = append(claims.Roles, s)
			}
		}
	}
	return claims, nil
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// CheckPassword compares a stored hash against a login attempt.
func CheckPassword(hash []byte, plain string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(plain)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Middleware authenticates requests via the Authorization bearer header
// and stores the verified user ID and roles in the gin context. Missing
// or invalid tokens get 401.
func Middleware(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRoles, claims.Roles)
		c.Next()
	}
}

// RequireRole gates a route to callers holding at least one of the
// given roles. Must run after Middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		held := RolesFrom(c)
		for _, want := range roles {
			for _, have := range held {
				if want == have {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// UserIDFrom returns the authenticated user ID set by Middleware.
func UserIDFrom(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// RolesFrom returns the authenticated user's roles set by Middleware.
func RolesFrom(c *gin.Context) []string {
	v, ok := c.Get(CtxRoles)
	if !ok {
		return nil
	}
	roles, _ := v.([]string)
	return roles
}

// HasRole reports whether the authenticated caller holds the role.
func HasRole(c *gin.Context, role string) bool {
	for _, r := range RolesFrom(c) {
		if r == role {
			return true
		}
	}
	return false
}
