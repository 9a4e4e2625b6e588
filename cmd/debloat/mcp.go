package main

import (
	"fmt"

	"github.com/aretw0/debloat/internal/cli"
	"github.com/aretw0/debloat/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long:  `Starts a Model Context Protocol (MCP) server that exposes the debloat sessions as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")

		st, err := openStack(cmd, cli.StackOptions{})
		if err != nil {
			return err
		}
		srv := mcp.NewServer(st.Engine, mcp.WithLogger(st.Logger))

		switch transport {
		case "stdio":
			return srv.ServeStdio()
		case "sse":
			port := st.Config.MCP.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}
			return srv.ServeSSE(cmd.Context(), port)
		default:
			return fmt.Errorf("unknown transport: %s", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport type (stdio, sse)")
	mcpCmd.Flags().Int("port", 8081, "Port for SSE server")
}
