package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lsscore/internal/boundary"
	"lsscore/internal/report"
	"lsscore/internal/types"
)

var (
	analyzeParamCode string
	analyzeLimit     int
	analyzeStart     string
	analyzeEnd       string
	analyzeAsText    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dimension] [key]",
	Short: "Run the analysis workflow for a dimension (batch, process, workshop, person, time)",
	Long:  "dimension is one of batch, process, workshop, person, time. key is required for every dimension except time.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dim := types.Dimension(strings.ToLower(args[0]))
		var key string
		if len(args) == 2 {
			key = args[1]
		}

		resp := application.boundary.Analyze(cmd.Context(), boundary.AnalysisRequest{
			Dimension: dim,
			Key:       key,
			ParamCode: analyzeParamCode,
			Limit:     analyzeLimit,
			Start:     analyzeStart,
			End:       analyzeEnd,
		})

		if analyzeAsText {
			if !resp.Success {
				return fmt.Errorf("analyze failed: %s", strings.Join(resp.Errors, "; "))
			}
			for _, paragraph := range report.Render(resp.Report) {
				fmt.Println(paragraph)
			}
			return nil
		}
		return printJSON(resp)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeParamCode, "param", "", "Parameter code (by_process only)")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "Row limit (defaults to provider config)")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "Interval start, RFC3339 (by_person/by_time)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "Interval end, RFC3339 (by_person/by_time)")
	analyzeCmd.Flags().BoolVar(&analyzeAsText, "text", false, "Render as human-readable paragraphs instead of JSON")
}
