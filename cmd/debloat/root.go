package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/debloat/internal/cli"
	"github.com/aretw0/debloat/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "debloat",
	Short: "debloat applies a catalog of system tweaks",
	Long: `debloat runs a curated catalog of system tweaks (privacy, telemetry, services, apps)
one after another through the platform shell, creating a restore point first when selected.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (.yaml, .toml or .json); defaults to the XDG config dir")
	rootCmd.PersistentFlags().String("catalog", "", "Catalog file; defaults to the embedded catalog")
	rootCmd.PersistentFlags().String("store", "", "Preference store driver: memory, file or redis")
	rootCmd.PersistentFlags().StringP("session", "s", "", "Session ID (defaults to \"default\")")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func globalOptions(cmd *cobra.Command) cli.GlobalOptions {
	configPath, _ := cmd.Flags().GetString("config")
	catalogPath, _ := cmd.Flags().GetString("catalog")
	store, _ := cmd.Flags().GetString("store")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.GlobalOptions{
		ConfigPath: configPath,
		Catalog:    catalogPath,
		Store:      store,
		Debug:      debug,
	}
}

func sessionID(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("session")
	return id
}

// openStack builds the engine for cmd and closes it when the command ends.
func openStack(cmd *cobra.Command, opts cli.StackOptions) (*cli.Stack, error) {
	st, err := cli.Open(globalOptions(cmd), opts)
	if err != nil {
		return nil, err
	}
	cobra.OnFinalize(func() { st.Close() })
	return st, nil
}

func interactive() bool {
	return tui.IsTerminal(os.Stdout)
}
