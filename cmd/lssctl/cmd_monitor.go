package main

import (
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Read-only monitoring views: per-node drill-down and plant-wide latest status",
}

var monitorNodeCmd = &cobra.Command{
	Use:   "node [node_code]",
	Short: "Print the per-parameter series, latest value and rolling Cpk for a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(application.boundary.NodeMonitorView(cmd.Context(), args[0]))
	},
}

var monitorLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the plant-wide latest-status snapshot for every Unit node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(application.boundary.LatestStatusView(cmd.Context()))
	},
}

func init() {
	monitorCmd.AddCommand(monitorNodeCmd, monitorLatestCmd)
}
