package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/intentgate/internal/nativehost"
)

func init() {
	rootCmd.AddCommand(nativeHostCmd)
}

var nativeHostCmd = &cobra.Command{
	Use:   "native-host [origin]",
	Short: "Serve the browser extension over native messaging",
	Long: "Reads length-prefixed JSON messages from stdin and writes replies to\n" +
		"stdout, as browsers expect from a native-messaging host. The browser\n" +
		"passes the calling extension's origin as the first argument.",
	Args: cobra.ArbitraryArgs,
	RunE: runNativeHost,
}

func runNativeHost(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Start(ctx); err != nil {
		return err
	}
	if len(args) > 0 {
		logger.Info("native host started", "origin", args[0])
	}
	return nativehost.New(a.Router(), logger).Serve(ctx, os.Stdin, os.Stdout)
}
