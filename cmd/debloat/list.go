package main

import (
	"github.com/aretw0/debloat/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the catalog and the session's selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		return cli.List(cmd.Context(), st, cmd.OutOrStdout(), sessionID(cmd), interactive())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
