package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
	gatemcp "github.com/ppiankov/intentgate/internal/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long: "Runs intentgate as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes tools: check, submit_intent, toggle, block, status, history.\n" +
		"With --addr the tools act on a running daemon.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		srv := gatemcp.New(g, gatemcp.Config{Version: version})

		fmt.Fprintln(os.Stderr, "intentgate MCP server running on stdio")
		if remoteAddr != "" {
			fmt.Fprintf(os.Stderr, "Daemon: %s\n", remoteAddr)
		}
		fmt.Fprintln(os.Stderr)

		return srv.Run(ctx)
	})
}
