// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/pkg/results"
)

var (
	publishPatientID   string
	publishTestName    string
	publishCollectedAt string
	publishSummary     string
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "View test results",
	Long: `Test results: list your released results and read one in full.
Staff can publish new results to patients.

Examples:
  portal results list
  portal results show <id>
  portal results publish --patient <id> --test CBC --collected 2025-01-10`,
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your released results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/results"); err != nil {
			return err
		}
		list, err := results.NewClient(portal.gw).List(cmd.Context())
		if err != nil {
			return err
		}

		headerf("Test Results")
		if len(list) == 0 {
			mutedf("  No results released yet.")
			return nil
		}
		rows := make([][]string, 0, len(list))
		for _, r := range list {
			rows = append(rows, []string{
				r.ID, r.TestName, r.CollectedAt.String(), r.ReleasedAt.Format("2006-01-02"),
			})
		}
		table([]string{"ID", "TEST", "COLLECTED", "RELEASED"}, rows)
		return nil
	},
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <result-id>",
	Short: "Show one result in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/results"); err != nil {
			return err
		}
		r, err := results.NewClient(portal.gw).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		headerf("%s", r.TestName)
		field("Collected", r.CollectedAt.String())
		field("Released", r.ReleasedAt.Format("2006-01-02"))
		if r.Summary != "" {
			field("Summary", r.Summary)
		}
		if len(r.Values) > 0 {
			rows := make([][]string, 0, len(r.Values))
			for _, v := range r.Values {
				rows = append(rows, []string{v.Name, v.Value, v.Unit, v.ReferenceRange, v.Flag})
			}
			table([]string{"ANALYTE", "VALUE", "UNIT", "REFERENCE", "FLAG"}, rows)
		}
		return nil
	},
}

var resultsPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Release a result to a patient (staff)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/results/publish"); err != nil {
			return err
		}
		r, err := results.NewClient(portal.gw).Publish(cmd.Context(), datatypes.PublishResultRequest{
			PatientID:   publishPatientID,
			TestName:    publishTestName,
			CollectedAt: publishCollectedAt,
			Summary:     publishSummary,
		})
		if err != nil {
			return err
		}
		successf("Result %s released to patient %s.", r.ID, r.PatientID)
		return nil
	},
}

func init() {
	resultsPublishCmd.Flags().StringVar(&publishPatientID, "patient", "", "Patient user ID (required)")
	resultsPublishCmd.Flags().StringVar(&publishTestName, "test", "", "Test name (required)")
	resultsPublishCmd.Flags().StringVar(&publishCollectedAt, "collected", "", "Collection date YYYY-MM-DD (required)")
	resultsPublishCmd.Flags().StringVar(&publishSummary, "summary", "", "Plain-language summary")
	_ = resultsPublishCmd.MarkFlagRequired("patient")
	_ = resultsPublishCmd.MarkFlagRequired("test")
	_ = resultsPublishCmd.MarkFlagRequired("collected")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsShowCmd)
	resultsCmd.AddCommand(resultsPublishCmd)
}
