package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lsscore/internal/boundary"
)

var toolsInputPath string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Run statistical analysis tools directly against explicit data",
}

var toolsRunCmd = &cobra.Command{
	Use:   "run [tool_key]",
	Short: "Run a registered tool by key against a JSON {data, config} payload",
	Long:  "Reads {\"data\": ..., \"config\": {...}} as JSON from --input (or stdin). data's shape must match the tool's required_data_shape.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req boundary.ToolRunRequest
		if err := readJSONInput(toolsInputPath, &req); err != nil {
			return err
		}
		return printJSON(application.boundary.RunTool(cmd.Context(), args[0], req))
	},
}

var toolsSPCCmd = &cobra.Command{
	Use:   "spc",
	Short: "Run the spc tool against an explicit series",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req boundary.SPCRequest
		if err := readJSONInput(toolsInputPath, &req); err != nil {
			return err
		}
		return printJSON(application.boundary.AnalyzeSPC(cmd.Context(), req))
	},
}

var toolsHistogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Run the histogram tool against an explicit series",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req boundary.HistogramRequest
		if err := readJSONInput(toolsInputPath, &req); err != nil {
			return err
		}
		return printJSON(application.boundary.AnalyzeHistogram(cmd.Context(), req))
	},
}

var toolsParetoCmd = &cobra.Command{
	Use:   "pareto",
	Short: "Run the pareto tool against explicit category counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req boundary.ParetoRequest
		if err := readJSONInput(toolsInputPath, &req); err != nil {
			return err
		}
		return printJSON(application.boundary.AnalyzePareto(cmd.Context(), req))
	},
}

var toolsBoxplotCmd = &cobra.Command{
	Use:   "boxplot",
	Short: "Run the boxplot tool against explicit named series",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req boundary.BoxplotRequest
		if err := readJSONInput(toolsInputPath, &req); err != nil {
			return err
		}
		return printJSON(application.boundary.AnalyzeBoxplot(cmd.Context(), req))
	},
}

func init() {
	for _, c := range []*cobra.Command{toolsRunCmd, toolsSPCCmd, toolsHistogramCmd, toolsParetoCmd, toolsBoxplotCmd} {
		c.Flags().StringVar(&toolsInputPath, "input", "", "Path to a JSON payload file (defaults to stdin)")
	}
	toolsCmd.AddCommand(toolsRunCmd, toolsSPCCmd, toolsHistogramCmd, toolsParetoCmd, toolsBoxplotCmd)
}

func readJSONInput(path string, v interface{}) error {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}
