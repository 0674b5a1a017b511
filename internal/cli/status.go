package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
)

var (
	statusFormat string
	reloadFormat string
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reloadModelCmd)
	statusCmd.Flags().StringVarP(&statusFormat, "format", "f", "text", "Output format (text|json)")
	reloadModelCmd.Flags().StringVarP(&reloadFormat, "format", "f", "text", "Output format (text|json)")
}

var statusCmd = &cobra.Command{
	Use:   "status [url]",
	Short: "Show filtering state for a URL",
	Long: "Reports whether filtering is on, whether the URL's domain is listed\n" +
		"and the label the popup button would show. Without a URL the last\n" +
		"checked URL is used.",
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

var reloadModelCmd = &cobra.Command{
	Use:   "reload-model",
	Short: "Reload the classifier snapshot",
	Long:  "Recompiles the configured snapshot and swaps it in. On failure the\ncurrent classifier stays active.",
	Args:  cobra.NoArgs,
	RunE:  runReloadModel,
}

func runStatus(cmd *cobra.Command, args []string) error {
	req := &gatev1.StatusRequest{}
	if len(args) == 1 {
		req.URL = args[0]
	}
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		st, err := g.Status(ctx, req)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if statusFormat == "json" {
			return printJSON(w, st)
		}

		onOff := "off"
		if st.Enabled {
			onOff = "on"
		}
		mode := "blocklist"
		if st.Inverted {
			mode = "allowlist"
		}
		fmt.Fprintf(w, "filtering: %s (%s)\n", onOff, mode)
		fmt.Fprintf(w, "model:     %s\n", orNone(st.Model))
		if st.Domain != "" {
			fmt.Fprintf(w, "domain:    %s\n", st.Domain)
			fmt.Fprintf(w, "listed:    %t\n", st.Member)
			fmt.Fprintf(w, "gated:     %t\n", st.Gated)
			fmt.Fprintf(w, "button:    %s\n", st.ButtonLabel)
		}
		if st.Badge != "" {
			fmt.Fprintf(w, "badge:     %s\n", st.Badge)
		}
		return nil
	})
}

func runReloadModel(cmd *cobra.Command, args []string) error {
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		resp, err := g.ReloadModel(ctx, &gatev1.ReloadModelRequest{})
		if err != nil {
			return err
		}
		if reloadFormat == "json" {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "model %s loaded\n", resp.Model)
		return nil
	})
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
