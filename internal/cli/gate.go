package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
	"github.com/ppiankov/intentgate/internal/app"
	"github.com/ppiankov/intentgate/internal/client"
)

// withGate runs fn against the daemon at --addr, or against an in-process
// engine over the configured store when no address is given.
func withGate(cmd *cobra.Command, fn func(ctx context.Context, g gatev1.GateServiceServer) error) error {
	ctx := commandContext(cmd)
	if remoteAddr != "" {
		c, err := client.New(remoteAddr, 0)
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(ctx, c)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a.Server)
}

// openApp wires the local components and installs defaults on first use.
func openApp(ctx context.Context) (*app.App, error) {
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := a.EnsureInstalled(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("install defaults: %w", err)
	}
	return a, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
