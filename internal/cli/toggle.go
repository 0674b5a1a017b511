package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
)

func init() {
	rootCmd.AddCommand(toggleCmd)
}

var toggleCmd = &cobra.Command{
	Use:       "toggle <on|off>",
	Short:     "Turn intent filtering on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "enable":
		on = true
	case "off", "false", "disable":
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}

	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		resp, err := g.Toggle(ctx, &gatev1.ToggleRequest{Enabled: on})
		if err != nil {
			return err
		}
		state := "off"
		if resp.Enabled {
			state = "on"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "filtering %s\n", state)
		return nil
	})
}
