package main

import (
	"github.com/spf13/cobra"

	"lsscore/internal/orchestrator"
	"lsscore/internal/types"
)

var (
	ordersTargetDate string
	ordersInputPath  string
)

// ordersRequest mirrors orchestrator.Request with JSON tags for the
// --input payload; Options is flattened to the fields an order request
// actually varies (limit and param_code), since interval bounds don't
// apply to the dimensions orders are generated over.
type ordersRequest struct {
	Dimension string `json:"dimension"`
	Key       string `json:"key"`
	ParamCode string `json:"param_code,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Generate daily Instructions from a set of dimension-scoped analysis requests",
	Long:  "Reads a JSON array of {dimension, key, param_code, limit} requests from --input (or stdin), runs each through the analysis and decision pipeline, and stores one Instruction per proposed action.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []ordersRequest
		if err := readJSONInput(ordersInputPath, &raw); err != nil {
			return err
		}

		requests := make([]orchestrator.Request, len(raw))
		for i, r := range raw {
			requests[i] = orchestrator.Request{
				Dimension: types.Dimension(r.Dimension),
				Key:       r.Key,
				Options:   orchestrator.Options{ParamCode: r.ParamCode, Limit: r.Limit},
			}
		}

		byRole, errs, err := application.instructions.GenerateDailyOrders(cmd.Context(), ordersTargetDate, requests)
		if err != nil {
			return err
		}

		return printJSON(struct {
			InstructionsByRole map[types.Role][]types.Instruction `json:"instructions_by_role"`
			Errors             []string                           `json:"errors,omitempty"`
		}{
			InstructionsByRole: byRole,
			Errors:             errs,
		})
	},
}

func init() {
	ordersCmd.Flags().StringVar(&ordersTargetDate, "date", "", "Target date the generated instructions belong to, YYYY-MM-DD")
	ordersCmd.Flags().StringVar(&ordersInputPath, "input", "", "Path to a JSON array of requests (defaults to stdin)")
}
