package main

import (
	"fmt"

	"github.com/aretw0/debloat/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (and optionally the MCP SSE server)",
	Long: `Serves sessions over a JSON API with server-sent progress events and Prometheus metrics.
With --mcp-port the MCP tools are served over SSE as well. With --watch the catalog file is
reloaded when it changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStack(cmd, cli.StackOptions{Interactive: true})
		if err != nil {
			return err
		}

		opts := cli.ServeOptions{Addr: st.Config.HTTP.Addr}
		if cmd.Flags().Changed("addr") {
			opts.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("mcp-port") {
			opts.MCPPort, _ = cmd.Flags().GetInt("mcp-port")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Starting debloat server on %s\n", opts.Addr)
		if err := cli.Serve(cmd.Context(), st, opts); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "debloat server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	serveCmd.Flags().Int("mcp-port", 0, "Also serve MCP over SSE on this port (0 disables)")
}
