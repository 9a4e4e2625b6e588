package main

import (
	"github.com/aretw0/debloat/internal/cli"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage stored session preferences",
	Long:  `List, inspect, and remove the selections stored for each session.`,
}

var prefsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		return cli.ListPreferences(cmd.Context(), st.Engine.Manager(), cmd.OutOrStdout())
	},
}

var prefsInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the stored preferences of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		return cli.InspectPreferences(cmd.Context(), st.Engine.Manager(), args[0], cmd.OutOrStdout())
	},
}

var prefsRmCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Remove the stored preferences of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		return cli.RemovePreferences(cmd.Context(), st.Engine.Manager(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsLsCmd)
	prefsCmd.AddCommand(prefsInspectCmd)
	prefsCmd.AddCommand(prefsRmCmd)
}
