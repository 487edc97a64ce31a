// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string // for non-interactive use; prompted when empty
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the portal",
	Long: `Authenticates against the portal backend and stores the session
token for subsequent commands.

The password is prompted interactively unless --password is given
(intended for scripts and tests only).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read email: %w", err)
			}
			email = strings.TrimSpace(line)
		}

		password := loginPassword
		if password == "" {
			fmt.Print("Password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = string(raw)
		}

		if err := portal.session.Login(cmd.Context(), email, password); err != nil {
			return err
		}

		profile := portal.session.Profile()
		successf("Logged in as %s (%s)", profile.FullName, strings.Join(profile.Roles, ", "))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.session.Logout(); err != nil {
			return err
		}
		successf("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.requireRoute(cmd.Context(), "/profile"); err != nil {
			return err
		}
		profile := portal.session.Profile()
		headerf("Account")
		field("Name", profile.FullName)
		field("Email", profile.Email)
		field("Roles", strings.Join(profile.Roles, ", "))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompts when omitted)")
}
