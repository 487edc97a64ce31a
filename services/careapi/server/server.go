// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package server wires careapi's HTTP surface: route registration,
// middleware and the request handlers for every /v1 endpoint.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meridianhealth/portal/pkg/logging"
	"github.com/meridianhealth/portal/services/careapi/auth"
	"github.com/meridianhealth/portal/services/careapi/config"
	"github.com/meridianhealth/portal/services/careapi/observability"
	"github.com/meridianhealth/portal/services/careapi/store"
)

// Server holds the handler dependencies.
type Server struct {
	store   store.Store
	issuer  *auth.Issuer
	metrics *observability.Metrics
	log     *logging.Logger

	// now is the time source; tests pin it.
	now func() time.Time

	rateLimit float64
	rateBurst int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger replaces the default logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithNowFunc substitutes the time source (tests).
func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server over the given store and configuration.
func New(st store.Store, cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		store:     st,
		issuer:    auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		metrics:   observability.NewMetrics(),
		log:       logging.Default(),
		now:       time.Now,
		rateLimit: cfg.RateLimit,
		rateBurst: cfg.RateBurst,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today returns the current calendar date in server time.
func (s *Server) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.metrics.Middleware())
	r.Use(s.rateLimitMiddleware())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		s.metrics.Registry(), promhttp.HandlerOpts{},
	)))

	v1 := r.Group("/v1")

	// Public surface: login and blog reads.
	v1.POST("/auth/login", s.handleLogin)
	v1.GET("/blog", s.handleListPosts)
	v1.GET("/blog/:slug", s.handleGetPost)

	authed := v1.Group("", auth.Middleware(s.issuer))
	authed.GET("/me", s.handleMe)

	cycles := authed.Group("/cycles", auth.RequireRole("patient"))
	cycles.GET("", s.handleListCycles)
	cycles.POST("", s.handleCreateCycle)
	cycles.PATCH("/:id", s.handleUpdateCycle)
	cycles.GET("/predictions", s.handlePredictions)

	appts := authed.Group("/appointments", auth.RequireRole("patient", "staff"))
	appts.GET("", s.handleListAppointments)
	appts.POST("", s.handleBookAppointment)
	appts.PATCH("/:id", s.handleUpdateAppointment)

	results := authed.Group("/results", auth.RequireRole("patient", "staff"))
	results.GET("", s.handleListResults)
	results.GET("/:id", s.handleGetResult)
	results.POST("", auth.RequireRole("staff"), s.handlePublishResult)

	authed.POST("/blog", auth.RequireRole("staff", "admin"), s.handleCreatePost)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
