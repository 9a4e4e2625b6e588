package main

import (
	"github.com/aretw0/debloat/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply the selected tweaks",
	Long: `Runs every selected option of the session in catalog order, with the restore point first.
Failed steps are reported and the run continues; the command only fails on setup errors.`,
	Example: `  debloat run
  debloat run --only restore_point,disable_telemetry
  debloat run --enable remove_onedrive --disable disable_defender --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		only, _ := cmd.Flags().GetStringSlice("only")
		enable, _ := cmd.Flags().GetStringSlice("enable")
		disable, _ := cmd.Flags().GetStringSlice("disable")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		quiet, _ := cmd.Flags().GetBool("quiet")
		tty := interactive()

		st, err := openStack(cmd, cli.StackOptions{Interactive: tty})
		if err != nil {
			return err
		}

		_, err = cli.Execute(cmd.Context(), st, cmd.OutOrStdout(), cli.RunOptions{
			SessionID:   sessionID(cmd),
			Only:        only,
			Enable:      enable,
			Disable:     disable,
			DryRun:      dryRun,
			Interactive: tty,
			Quiet:       quiet,
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSlice("only", nil, "Run exactly these option IDs")
	runCmd.Flags().StringSlice("enable", nil, "Select these option IDs before running")
	runCmd.Flags().StringSlice("disable", nil, "Deselect these option IDs before running")
	runCmd.Flags().Bool("dry-run", false, "Print the plan without executing it")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print progress")
}
