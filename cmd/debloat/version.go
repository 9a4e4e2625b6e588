package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/debloat"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of debloat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "debloat version %s\n", strings.TrimSpace(debloat.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
