// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Credentry Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the credentry CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentry",
		Short: "Credentry - account registration service",
		Long: `Credentry registers user accounts: it validates untrusted email and
password input, hashes credentials, and guarantees that no two accounts
ever share an email, even under concurrent signups.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
