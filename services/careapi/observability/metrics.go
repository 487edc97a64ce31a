// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability exposes careapi's Prometheus metrics and the
// gin middleware that records them.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cyclesLogged    prometheus.Counter
	loginFailures   prometheus.Counter
}

// NewMetrics builds and registers the collectors on a private registry,
// so tests can create independent instances without duplicate
// registration panics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careapi",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careapi",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cyclesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "careapi",
			Name:      "cycles_logged_total",
			Help:      "Cycles successfully created.",
		}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "careapi",
			Name:      "login_failures_total",
			Help:      "Rejected login attempts.",
		}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.cyclesLogged, m.loginFailures)
	return m
}

// Registry returns the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CycleLogged counts a successful cycle creation.
func (m *Metrics) CycleLogged() {
	m.cyclesLogged.Inc()
}

// LoginFailed counts a rejected login.
func (m *Metrics) LoginFailed() {
	m.loginFailures.Inc()
}

// Middleware records request counts and latency. The route label is
// gin's template path (e.g. /v1/cycles/:id) so cardinality stays
// bounded regardless of path parameters.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}
