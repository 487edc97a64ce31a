// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// portal is the Meridian Health patient portal CLI. It talks to the
// careapi backend: cycle tracking, appointments, test results and the
// health blog, gated by the caller's portal roles.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridianhealth/portal/pkg/cycle"
	"github.com/meridianhealth/portal/pkg/gateway"
	"github.com/meridianhealth/portal/pkg/logging"
	"github.com/meridianhealth/portal/pkg/routing"
	"github.com/meridianhealth/portal/pkg/session"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

var (
	flagBaseURL string // Override the configured backend URL
	flagNoColor bool   // Disable styled output
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// app bundles the shared client-side state every command needs. It is
// built once per invocation in rootCmd's PersistentPreRun.
type app struct {
	cfg     *Config
	gw      *gateway.Client
	session *session.Session
	routes  *routing.Table
	tracker *cycle.Tracker
	log     *logging.Logger
}

var portal *app

func buildApp() (*app, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}

	log := logging.New(logging.Config{Service: "portal", Quiet: true, LogDir: cfg.LogDir})
	gw := gateway.New(cfg.BaseURL, gateway.WithLogger(log))

	var opts []session.Option
	if cfg.TokenPath != "" {
		opts = append(opts, session.WithTokenPath(cfg.TokenPath))
	}
	opts = append(opts, session.WithLogger(log))
	sess := session.New(gw, opts...)
	sess.OnExpired(func() {
		errorf("Your session has expired. Please log in again.")
	})

	return &app{
		cfg:     cfg,
		gw:      gw,
		session: sess,
		routes:  routing.Default(),
		tracker: cycle.NewTracker(cycle.NewClient(gw), cycle.WithLogger(log)),
		log:     log,
	}, nil
}

// requireRoute bootstraps the stored session if any and resolves the
// route against the caller's roles. Public routes pass with no session.
func (a *app) requireRoute(ctx context.Context, route string) error {
	if err := a.session.Bootstrap(ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrNotAuthenticated):
			// No stored session; public routes still resolve below.
		case errors.Is(err, session.ErrTokenExpired):
			errorf("Your session has expired. Please log in again.")
		default:
			return err
		}
	}

	res := a.routes.Resolve(route, a.session.Roles())
	switch res.Decision {
	case routing.Allow:
		return nil
	case routing.Redirect:
		return fmt.Errorf("you are not logged in; run 'portal login' first")
	default:
		return fmt.Errorf("your account does not have access to %s", route)
	}
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Meridian Health patient portal",
	Long: `portal is the Meridian Health command-line patient portal.

Track menstrual cycles, book appointments, read test results and browse
the health blog. Staff accounts can additionally publish results and
blog posts and manage appointments.

Examples:
  portal login --email you@example.com
  portal cycles status
  portal cycles start --date 2025-01-10 --length 28
  portal appointments book --department gynecology --date 2025-02-01 --slot 09:30
  portal dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagNoColor {
			disableStyles()
		}
		var err error
		portal, err = buildApp()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "server", "",
		"Backend base URL (overrides the config file)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(cyclesCmd)
	rootCmd.AddCommand(appointmentsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(blogCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorf("%s", userFacingError(err))
		os.Exit(1)
	}
}

// userFacingError maps client and server errors to the message shown
// to the user. Validation messages from the backend surface verbatim;
// anything unclassified gets the generic fallback.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, gateway.ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, gateway.ErrUnreachable):
		return "The portal backend is unreachable. Check your connection and try again."
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return err.Error()
}
