package main

import (
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect the process graph and fault tree",
}

var graphStructureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Print every node and edge",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(application.boundary.GraphStructure())
	},
}

var graphRiskTreeCmd = &cobra.Command{
	Use:   "risks",
	Short: "Print every risk node and risk edge",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(application.boundary.RiskTree())
	},
}

var graphNodeRisksCmd = &cobra.Command{
	Use:   "node-risks [node_code]",
	Short: "Print the risks associated with a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(application.boundary.NodeRisks(args[0]))
	},
}

func init() {
	graphCmd.AddCommand(graphStructureCmd, graphRiskTreeCmd, graphNodeRisksCmd)
}
