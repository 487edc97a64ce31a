// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meridianhealth/portal/pkg/booking"
	"github.com/meridianhealth/portal/pkg/cycle"
	"github.com/meridianhealth/portal/pkg/datatypes"
)

// dashboardCmd is the landing view: cycle status, predictions and the
// next appointments, fetched concurrently.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your portal overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/dashboard"); err != nil {
			return err
		}

		isPatient := portal.session.Profile().HasRole(datatypes.RolePatient)

		var (
			predictions cycle.PredictionResult
			appts       []datatypes.Appointment
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		if isPatient {
			g.Go(func() error {
				return portal.tracker.Refresh(ctx)
			})
			g.Go(func() error {
				var err error
				predictions, err = portal.tracker.Predictions(ctx)
				return err
			})
		}
		g.Go(func() error {
			var err error
			appts, err = booking.NewClient(portal.gw).List(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		headerf("Welcome back, %s", portal.session.Profile().FullName)

		if isPatient {
			snap := portal.tracker.Snapshot()
			fmt.Println()
			headerf("Cycle")
			if snap.Determined {
				field("Day", fmt.Sprintf("%d (%s)", snap.CycleDay, snap.Phase))
				if predictions.Prediction != nil {
					field("Next period", predictions.Prediction.NextPeriodDate.String())
				}
			} else {
				mutedf("  No cycle history yet.")
			}
		}

		fmt.Println()
		headerf("Upcoming Appointments")
		upcoming := 0
		for _, a := range appts {
			if a.Status == datatypes.AppointmentCancelled || a.Status == datatypes.AppointmentCompleted {
				continue
			}
			fmt.Printf("  %s %s  %s (%s)\n", a.Date.String(), a.Slot, a.Department, a.Status)
			upcoming++
		}
		if upcoming == 0 {
			mutedf("  None scheduled.")
		}
		return nil
	},
}
