package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/intentgate/internal/config"
	"github.com/ppiankov/intentgate/internal/logging"
)

var (
	cfgPath    string
	remoteAddr string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "intentgate",
	Short: "Ask for a reason before opening distracting sites",
	Long: "Gates navigation to blocked sites behind a stated intent. A small\n" +
		"classifier judges the intent; accepted intents whitelist the site for\n" +
		"a few minutes. Runs as a gRPC daemon, a browser native-messaging host\n" +
		"or an MCP tool server.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config YAML (default ~/.intentgate/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&remoteAddr, "addr", "", "Talk to a running daemon at this address instead of the local store")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug|info|warn|error)")
}

// setup loads .env, the config file and the logger.
func setup() error {
	config.LoadEnv()
	c, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	l, err := logging.New(os.Stderr, c.Log)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	slog.SetDefault(l)
	return nil
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
