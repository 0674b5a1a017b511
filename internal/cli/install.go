package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/intentgate/internal/app"
	"github.com/ppiankov/intentgate/internal/config"
)

var initConfigForce bool

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(initConfigCmd)
	initConfigCmd.Flags().BoolVar(&initConfigForce, "force", false, "Overwrite an existing config file")
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Reset the store to first-install defaults",
	Long: "Clears the whitelist and intent history, writes the default options,\n" +
		"seeds the blocked-site list and turns filtering on.",
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Turn filtering back on after an update",
	Args:  cobra.NoArgs,
	RunE:  runUpgrade,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Generate a default config.yaml with comments",
	Long:  "Creates ~/.intentgate/config.yaml (or the --config path) with the\ndefault store, model and server settings.",
	Args:  cobra.NoArgs,
	RunE:  runInitConfig,
}

// localApp opens the store directly; install and upgrade are not RPCs.
func localApp(cmd *cobra.Command) (*app.App, error) {
	if remoteAddr != "" {
		return nil, fmt.Errorf("%s runs against the local store; stop the daemon and drop --addr", cmd.Name())
	}
	return app.Open(commandContext(cmd), cfg, logger)
}

func runInstall(cmd *cobra.Command, args []string) error {
	a, err := localApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Engine.Install(commandContext(cmd)); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "installed %d default sites into %s\n", len(cfg.DefaultSites), storeLabel())
	return nil
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	a, err := localApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Engine.Upgrade(commandContext(cmd)); err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "filtering on")
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !initConfigForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(config.DefaultConfigYAML()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
