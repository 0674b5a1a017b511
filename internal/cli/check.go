package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
)

var (
	checkFormat  string
	intentURL    string
	intentFormat string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(intentCmd)
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	intentCmd.Flags().StringVar(&intentURL, "url", "", "Site the intent is for (default: the last checked URL)")
	intentCmd.Flags().StringVarP(&intentFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Evaluate a navigation to a URL",
	Long: "Reports whether the URL is UNGATED, WHITELISTED or AWAITING_INTENT.\n" +
		"Storage failures fail open and report UNGATED with a reason.",
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var intentCmd = &cobra.Command{
	Use:   "intent <words...>",
	Short: "Submit an intent for a gated site",
	Long: "Judges the intent with the classifier. ACCEPTED whitelists the site for\n" +
		"whitelistTime minutes; TOO_SHORT and REJECTED leave it gated.",
	Args: cobra.MinimumNArgs(1),
	RunE: runIntent,
}

func runCheck(cmd *cobra.Command, args []string) error {
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		d, err := g.Check(ctx, &gatev1.CheckRequest{URL: args[0]})
		if err != nil {
			return err
		}
		return printDecision(cmd.OutOrStdout(), d, checkFormat)
	})
}

func runIntent(cmd *cobra.Command, args []string) error {
	intent := strings.Join(args, " ")
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		d, err := g.SubmitIntent(ctx, &gatev1.SubmitIntentRequest{URL: intentURL, Intent: &intent})
		if err != nil {
			return err
		}
		return printDecision(cmd.OutOrStdout(), d, intentFormat)
	})
}

func printDecision(w io.Writer, d *gatev1.Decision, format string) error {
	if format == "json" {
		return printJSON(w, d)
	}

	line := d.State
	if d.Domain != "" {
		line += "  " + d.Domain
	}
	if d.Status != "" {
		line += "  status=" + d.Status
	}
	fmt.Fprintln(w, line)
	if d.Expiry != "" {
		fmt.Fprintf(w, "  whitelisted until %s (%s left)\n", d.Expiry, remainingText(d.RemainingSeconds))
	}
	if d.CustomMessage != "" {
		fmt.Fprintf(w, "  %s\n", d.CustomMessage)
	}
	if d.Reason != "" {
		fmt.Fprintf(w, "  reason: %s\n", d.Reason)
	}
	return nil
}
