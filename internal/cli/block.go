package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
)

var unblockIndex int

func init() {
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
	rootCmd.AddCommand(sitesCmd)
	unblockCmd.Flags().IntVar(&unblockIndex, "index", -1, "Remove the site at this position in `intentgate sites`")
}

var blockCmd = &cobra.Command{
	Use:   "block <url>",
	Short: "Add a site to the blocked list",
	Long:  "Adds the URL's domain to the blocked-site list. In inverted mode the\nlist is an allow list instead.",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlock,
}

var unblockCmd = &cobra.Command{
	Use:   "unblock [url]",
	Short: "Remove a site from the blocked list",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUnblock,
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List blocked sites",
	Args:  cobra.NoArgs,
	RunE:  runSites,
}

func runBlock(cmd *cobra.Command, args []string) error {
	return editRegistry(cmd, &gatev1.BlockRequest{Site: args[0]})
}

func runUnblock(cmd *cobra.Command, args []string) error {
	req := &gatev1.BlockRequest{Unblock: true}
	switch {
	case len(args) == 1:
		req.Site = args[0]
	case unblockIndex >= 0:
		idx := unblockIndex
		req.Index = &idx
	default:
		return fmt.Errorf("give a url or --index")
	}
	return editRegistry(cmd, req)
}

func editRegistry(cmd *cobra.Command, req *gatev1.BlockRequest) error {
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		resp, err := g.Block(ctx, req)
		if err != nil {
			return err
		}
		verb := "blocked"
		if req.Unblock {
			verb = "unblocked"
		}
		if !resp.Changed {
			verb = "unchanged"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, resp.Site)
		return nil
	})
}

func runSites(cmd *cobra.Command, args []string) error {
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		resp, err := g.ListSites(ctx, &gatev1.ListSitesRequest{})
		if err != nil {
			return err
		}
		for i, s := range resp.Sites {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, s)
		}
		return nil
	})
}
