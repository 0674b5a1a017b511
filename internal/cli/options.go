package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
)

var optionValues struct {
	whitelistTime       float64
	numIntentEntries    float64
	minIntentLength     float64
	predictionThreshold float64
	customMessage       string
	enableBlobs         bool
	enable3D            bool
	invertedMode        bool
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	f := optionsCmd.Flags()
	f.Float64Var(&optionValues.whitelistTime, "whitelist-time", 5, "Minutes a site stays open after an accepted intent")
	f.Float64Var(&optionValues.numIntentEntries, "intent-entries", 20, "Intents shown in history")
	f.Float64Var(&optionValues.minIntentLength, "min-intent-length", 3, "Intents with this many words or fewer are too short")
	f.Float64Var(&optionValues.predictionThreshold, "threshold", 0.5, "Classifier acceptance threshold, exclusive (0,1)")
	f.StringVar(&optionValues.customMessage, "message", "", "Message shown on the gate page")
	f.BoolVar(&optionValues.enableBlobs, "blobs", true, "Animated background on the gate page")
	f.BoolVar(&optionValues.enable3D, "3d", true, "3D effects on the gate page")
	f.BoolVar(&optionValues.invertedMode, "inverted", false, "Treat the site list as an allow list")
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Change stored options",
	Long: "Writes only the flags given on the command line; other options keep\n" +
		"their stored values. Values are validated before anything is written.",
	Args: cobra.NoArgs,
	RunE: runOptions,
}

func runOptions(cmd *cobra.Command, args []string) error {
	opts := optionsFromFlags(cmd)
	if opts == (gatev1.Options{}) {
		return fmt.Errorf("no options given; see intentgate options --help")
	}
	return withGate(cmd, func(ctx context.Context, g gatev1.GateServiceServer) error {
		if _, err := g.SaveOptions(ctx, &opts); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "options saved")
		return nil
	})
}

// optionsFromFlags sets a field only for flags the user passed.
func optionsFromFlags(cmd *cobra.Command) gatev1.Options {
	var o gatev1.Options
	changed := cmd.Flags().Changed
	if changed("whitelist-time") {
		o.WhitelistTime = &optionValues.whitelistTime
	}
	if changed("intent-entries") {
		o.NumIntentEntries = &optionValues.numIntentEntries
	}
	if changed("min-intent-length") {
		o.MinIntentLength = &optionValues.minIntentLength
	}
	if changed("threshold") {
		o.PredictionThreshold = &optionValues.predictionThreshold
	}
	if changed("message") {
		o.CustomMessage = &optionValues.customMessage
	}
	if changed("blobs") {
		o.EnableBlobs = &optionValues.enableBlobs
	}
	if changed("3d") {
		o.Enable3D = &optionValues.enable3D
	}
	if changed("inverted") {
		o.EnableInvertedMode = &optionValues.invertedMode
	}
	return o
}
