package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
	"github.com/ppiankov/intentgate/internal/model"
)

var (
	whitelistPrune bool
	historyLimit   int
)

func init() {
	rootCmd.AddCommand(whitelistCmd)
	rootCmd.AddCommand(historyCmd)
	whitelistCmd.Flags().BoolVar(&whitelistPrune, "prune", false, "Delete expired entries first")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Entries to show (default: numIntentEntries)")
}

var whitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Show whitelisted sites and their remaining time",
	Args:  cobra.NoArgs,
	RunE:  runWhitelist,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently submitted intents",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runWhitelist(cmd *cobra.Command, args []string) error {
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		resp, err := g.ListWhitelist(ctx, &gatev1.ListWhitelistRequest{Prune: whitelistPrune})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if resp.Pruned > 0 {
			fmt.Fprintf(w, "pruned %d expired\n", resp.Pruned)
		}
		if len(resp.Entries) == 0 {
			fmt.Fprintln(w, "no whitelisted sites")
			return nil
		}
		for _, e := range resp.Entries {
			when := "expired"
			if e.Live {
				when = remainingText(e.RemainingSeconds) + " left"
			}
			if t, err := model.ParseTimestamp(e.Expiry); err == nil {
				when += ", " + humanize.Time(t)
			}
			fmt.Fprintf(w, "%-30s %s\n", e.Domain, when)
		}
		return nil
	})
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		resp, err := g.History(ctx, &gatev1.HistoryRequest{Limit: historyLimit})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(resp.Records) == 0 {
			fmt.Fprintln(w, "no intents recorded")
			return nil
		}
		for _, r := range resp.Records {
			when := r.At
			if t, err := model.ParseTimestamp(r.At); err == nil {
				when = humanize.Time(t)
			}
			fmt.Fprintf(w, "%-16s %-24s %s\n", when, r.URL, r.Intent)
		}
		return nil
	})
}

// remainingText renders whole seconds as a short duration such as "4m59s".
func remainingText(secs int64) string {
	if secs <= 0 {
		return "0s"
	}
	return (time.Duration(secs) * time.Second).String()
}
