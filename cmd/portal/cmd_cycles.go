// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridianhealth/portal/pkg/cycle"
	"github.com/meridianhealth/portal/pkg/datatypes"
)

var (
	cycleStartDate string
	cycleLength    int
	cycleNotes     string
	cycleEndDate   string
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Track menstrual cycles",
	Long: `Cycle tracking: log cycle starts and ends, see where you are in
the current cycle and view predictions for the next one.

Examples:
  portal cycles status
  portal cycles start --date 2025-01-10 --length 28
  portal cycles end --date 2025-01-15
  portal cycles list
  portal cycles predictions`,
}

var cyclesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current cycle day and phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/cycles"); err != nil {
			return err
		}
		if err := portal.tracker.Refresh(cmd.Context()); err != nil {
			return err
		}

		snap := portal.tracker.Snapshot()
		headerf("Cycle Status")
		if !snap.Determined {
			mutedf("  No cycle history yet. Log your first cycle with 'portal cycles start'.")
			return nil
		}

		field("Cycle started", snap.Cycle.StartDate.String())
		field("Day", fmt.Sprintf("%d of %d", snap.CycleDay, snap.Cycle.DeclaredLength()))
		field("Phase", snap.Phase.String())
		if !snap.Cycle.Active() {
			mutedf("  (derived from your most recent closed cycle)")
		}
		return nil
	},
}

var cyclesStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Log the start of a new cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/cycles"); err != nil {
			return err
		}

		date := cycleStartDate
		if date == "" {
			date = time.Now().Format(datatypes.DateLayout)
		}
		created, err := portal.tracker.StartNew(cmd.Context(), cycle.StartForm{
			StartDate:   date,
			CycleLength: cycleLength,
			Notes:       cycleNotes,
		})
		if err != nil {
			return err
		}
		successf("Cycle logged, starting %s.", created.StartDate.String())
		return nil
	},
}

var cyclesEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/cycles"); err != nil {
			return err
		}

		date := cycleEndDate
		if date == "" {
			date = time.Now().Format(datatypes.DateLayout)
		}
		closed, err := portal.tracker.CloseActive(cmd.Context(), date)
		if err != nil {
			return err
		}
		successf("Cycle ended on %s.", closed.EndDate.String())
		return nil
	},
}

var cyclesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your cycle history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/cycles"); err != nil {
			return err
		}
		cycles, err := portal.tracker.List(cmd.Context())
		if err != nil {
			return err
		}

		headerf("Cycle History")
		if len(cycles) == 0 {
			mutedf("  No cycles logged yet.")
			return nil
		}

		rows := make([][]string, 0, len(cycles))
		for _, c := range cycles {
			end := "(active)"
			if c.EndDate != nil {
				end = c.EndDate.String()
			}
			rows = append(rows, []string{
				c.StartDate.String(), end, fmt.Sprintf("%d", c.DeclaredLength()), c.Notes,
			})
		}
		table([]string{"START", "END", "LENGTH", "NOTES"}, rows)
		return nil
	},
}

var cyclesPredictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Show next period, ovulation and fertility window",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/cycles"); err != nil {
			return err
		}
		res, err := portal.tracker.Predictions(cmd.Context())
		if err != nil {
			return err
		}

		headerf("Predictions")
		if res.Source == cycle.SourceUndetermined {
			mutedf("  No cycle history yet, so there is nothing to predict.")
			return nil
		}

		p := res.Prediction
		field("Next period", p.NextPeriodDate.String())
		field("Ovulation", p.OvulationDate.String())
		field("Fertility window", p.FertilityWindowStart.String()+" to "+p.FertilityWindowEnd.String())
		if res.Source == cycle.SourceLocal {
			mutedf("  (estimated locally from your latest cycle)")
		}
		return nil
	},
}

func init() {
	cyclesStartCmd.Flags().StringVar(&cycleStartDate, "date", "", "Start date (YYYY-MM-DD, default today)")
	cyclesStartCmd.Flags().IntVar(&cycleLength, "length", datatypes.DefaultCycleLength, "Expected cycle length in days (21-35)")
	cyclesStartCmd.Flags().StringVar(&cycleNotes, "notes", "", "Free-form notes")
	cyclesEndCmd.Flags().StringVar(&cycleEndDate, "date", "", "End date (YYYY-MM-DD, default today)")

	cyclesCmd.AddCommand(cyclesStatusCmd)
	cyclesCmd.AddCommand(cyclesStartCmd)
	cyclesCmd.AddCommand(cyclesEndCmd)
	cyclesCmd.AddCommand(cyclesListCmd)
	cyclesCmd.AddCommand(cyclesPredictionsCmd)
}
