// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/meridianhealth/portal/pkg/booking"
	"github.com/meridianhealth/portal/pkg/datatypes"
)

var (
	bookDepartment   string
	bookPractitioner string
	bookDate         string
	bookSlot         string
	bookReason       string
	apptStatus       string
)

var appointmentsCmd = &cobra.Command{
	Use:     "appointments",
	Aliases: []string{"appts"},
	Short:   "Book and manage appointments",
	Long: `Appointments: book a visit, list upcoming ones, cancel, and (for
staff) move appointments through their workflow.

Examples:
  portal appointments list
  portal appointments book --department gynecology --date 2025-02-01 --slot 09:30
  portal appointments cancel <id>
  portal appointments set-status <id> --status confirmed`,
}

var appointmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/appointments"); err != nil {
			return err
		}
		appts, err := booking.NewClient(portal.gw).List(cmd.Context())
		if err != nil {
			return err
		}

		headerf("Appointments")
		if len(appts) == 0 {
			mutedf("  No appointments.")
			return nil
		}
		rows := make([][]string, 0, len(appts))
		for _, a := range appts {
			rows = append(rows, []string{
				a.ID, a.Date.String(), a.Slot, a.Department, a.Practitioner, a.Status,
			})
		}
		table([]string{"ID", "DATE", "SLOT", "DEPARTMENT", "PRACTITIONER", "STATUS"}, rows)
		return nil
	},
}

var appointmentsBookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book a new appointment",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/appointments"); err != nil {
			return err
		}
		appt, err := booking.NewClient(portal.gw).Book(cmd.Context(), datatypes.BookAppointmentRequest{
			Department:   bookDepartment,
			Practitioner: bookPractitioner,
			Date:         bookDate,
			Slot:         bookSlot,
			Reason:       bookReason,
		})
		if err != nil {
			return err
		}
		successf("Appointment requested for %s at %s (%s). Status: %s.",
			appt.Date.String(), appt.Slot, appt.Department, appt.Status)
		return nil
	},
}

var appointmentsCancelCmd = &cobra.Command{
	Use:   "cancel <appointment-id>",
	Short: "Cancel an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/appointments"); err != nil {
			return err
		}
		appt, err := booking.NewClient(portal.gw).Cancel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		successf("Appointment %s cancelled.", appt.ID)
		return nil
	},
}

var appointmentsSetStatusCmd = &cobra.Command{
	Use:   "set-status <appointment-id>",
	Short: "Move an appointment through its workflow (staff)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/appointments"); err != nil {
			return err
		}
		appt, err := booking.NewClient(portal.gw).Update(cmd.Context(), args[0],
			datatypes.UpdateAppointmentRequest{Status: &apptStatus})
		if err != nil {
			return err
		}
		successf("Appointment %s is now %s.", appt.ID, appt.Status)
		return nil
	},
}

func init() {
	appointmentsBookCmd.Flags().StringVar(&bookDepartment, "department", "", "Department (required)")
	appointmentsBookCmd.Flags().StringVar(&bookPractitioner, "practitioner", "", "Preferred practitioner")
	appointmentsBookCmd.Flags().StringVar(&bookDate, "date", "", "Appointment date YYYY-MM-DD (required)")
	appointmentsBookCmd.Flags().StringVar(&bookSlot, "slot", "", "Time slot HH:MM (required)")
	appointmentsBookCmd.Flags().StringVar(&bookReason, "reason", "", "Reason for the visit")
	_ = appointmentsBookCmd.MarkFlagRequired("department")
	_ = appointmentsBookCmd.MarkFlagRequired("date")
	_ = appointmentsBookCmd.MarkFlagRequired("slot")

	appointmentsSetStatusCmd.Flags().StringVar(&apptStatus, "status", "", "New status: confirmed, completed or cancelled")
	_ = appointmentsSetStatusCmd.MarkFlagRequired("status")

	appointmentsCmd.AddCommand(appointmentsListCmd)
	appointmentsCmd.AddCommand(appointmentsBookCmd)
	appointmentsCmd.AddCommand(appointmentsCancelCmd)
	appointmentsCmd.AddCommand(appointmentsSetStatusCmd)
}
