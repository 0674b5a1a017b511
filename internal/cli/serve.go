package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "listen", "", "gRPC listen address (overrides server.addr)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intentgate gRPC daemon",
	Long: "Runs the gate engine as a local gRPC daemon. The CLI (with --addr),\n" +
		"the MCP server and other clients share one engine.\n" +
		"Supports hot-reload of classifier snapshots in model.dir.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	ctx := commandContext(cmd)

	a, err := openApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	defer a.Close()

	if err := a.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "intentgate daemon listening on %s\n", cfg.Server.Addr)
	fmt.Fprintf(os.Stderr, "Store: %s  Model: %s\n", storeLabel(), a.Engine.ModelVersion())
	fmt.Fprintln(os.Stderr)

	err = a.Serve(ctx)
	fmt.Fprintln(os.Stderr, "\nShutting down intentgate daemon...")
	return err
}

func storeLabel() string {
	if cfg.Store.Path != "" {
		return cfg.Store.Backend + " " + cfg.Store.Path
	}
	return cfg.Store.Backend
}
