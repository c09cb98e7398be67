package main

import (
	"github.com/spf13/cobra"

	"lsscore/internal/boundary"
	"lsscore/internal/types"
)

var (
	instructionsRole       string
	instructionsTargetDate string
	instructionsStatus     string
	instructionsFeedback   string
)

var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "List and transition generated daily instructions",
}

var instructionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List instructions for a role and target date, optionally filtered by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := application.boundary.ListInstructions(
			types.Role(instructionsRole), instructionsTargetDate, types.InstructionStatus(instructionsStatus))
		return printJSON(resp)
	},
}

var instructionsReadCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Mark an instruction Pending -> Read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(application.boundary.MarkInstructionRead(args[0]))
	},
}

var instructionsDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Mark an instruction Read -> Done, optionally recording feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(application.boundary.MarkInstructionDone(args[0], boundary.MarkDoneRequest{Feedback: instructionsFeedback}))
	},
}

func init() {
	instructionsListCmd.Flags().StringVar(&instructionsRole, "role", "", "Target role (Operator, QA, TeamLeader, Manager)")
	instructionsListCmd.Flags().StringVar(&instructionsTargetDate, "date", "", "Target date, YYYY-MM-DD")
	instructionsListCmd.Flags().StringVar(&instructionsStatus, "status", "", "Filter by status (Pending, Read, Done); empty returns all")

	instructionsDoneCmd.Flags().StringVar(&instructionsFeedback, "feedback", "", "Free-text feedback recorded at completion")

	instructionsCmd.AddCommand(instructionsListCmd, instructionsReadCmd, instructionsDoneCmd)
}
