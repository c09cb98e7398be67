// Command lssctl is the process-analytics backend's command-line entry
// point: it wires the store, providers, tool registry, orchestrator,
// decision engine, instruction engine and monitor into one Dispatcher and
// exposes the external operation surface as subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lsscore/internal/config"
	"lsscore/internal/logging"
)

var (
	configPath string
	workspace  string

	application *app
)

var rootCmd = &cobra.Command{
	Use:   "lssctl",
	Short: "Process-analytics backend for batch, process, workshop, person and time dimensions",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws := workspace
		if ws == "" {
			var err error
			ws, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("determine workspace: %w", err)
			}
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize logging: %v\n", err)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		application, err = newApp(cfg)
		if err != nil {
			return fmt.Errorf("wire application: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logging.CloseAll()
		if application != nil {
			return application.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "lssctl.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory for logs (default: current)")

	rootCmd.AddCommand(
		seedCmd,
		graphCmd,
		analyzeCmd,
		toolsCmd,
		ordersCmd,
		instructionsCmd,
		monitorCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
