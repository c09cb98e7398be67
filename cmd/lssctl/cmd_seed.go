package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lsscore/internal/types"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a minimal bootstrap process graph, fault tree and action catalog",
	Long:  "Populates an empty store with a small Extraction -> Concentration -> Drying process graph, its parameters, a fault tree and a handful of remediation actions, enough to exercise every operation without a real plant import.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := application.store

		nodes := []types.Node{
			{Code: "BLK-EXT", Name: "Extraction Block", Type: types.NodeBlock, PositionX: 0, PositionY: 0},
			{Code: "U-EXT-1", Name: "Extractor 1", Type: types.NodeUnit, ParentCode: "BLK-EXT", PositionX: 0, PositionY: 1},
			{Code: "R-SOLVENT", Name: "Solvent Tank", Type: types.NodeResource, ParentCode: "BLK-EXT", PositionX: -1, PositionY: 1},
			{Code: "BLK-CONC", Name: "Concentration Block", Type: types.NodeBlock, PositionX: 2, PositionY: 0},
			{Code: "U-CONC-1", Name: "Concentrator 1", Type: types.NodeUnit, ParentCode: "BLK-CONC", PositionX: 2, PositionY: 1},
			{Code: "BLK-DRY", Name: "Drying Block", Type: types.NodeBlock, PositionX: 4, PositionY: 0},
			{Code: "U-DRY-1", Name: "Dryer 1", Type: types.NodeUnit, ParentCode: "BLK-DRY", PositionX: 4, PositionY: 1},
		}
		for _, n := range nodes {
			if err := st.UpsertNode(n); err != nil {
				return fmt.Errorf("seed node %s: %w", n.Code, err)
			}
		}

		edges := []types.Edge{
			{SourceCode: "BLK-EXT", TargetCode: "BLK-CONC", Name: "extract liquor", LossRate: 0.02},
			{SourceCode: "BLK-CONC", TargetCode: "BLK-DRY", Name: "concentrate", LossRate: 0.01},
		}
		for _, e := range edges {
			if err := st.UpsertEdge(e); err != nil {
				return fmt.Errorf("seed edge %s->%s: %w", e.SourceCode, e.TargetCode, err)
			}
		}

		usl95, lsl85, target90 := 95.0, 85.0, 90.0
		uslTemp, lslTemp := 65.0, 55.0
		uslMoist, lslMoist := 5.0, 0.0
		params := []types.ParameterDef{
			{NodeCode: "U-EXT-1", Code: "TEMP", Name: "Extraction Temperature", Unit: "C", Role: types.RoleControl, USL: &uslTemp, LSL: &lslTemp, DataType: types.DataScalar},
			{NodeCode: "U-EXT-1", Code: "YIELD", Name: "Extraction Yield", Unit: "%", Role: types.RoleOutput, USL: &usl95, LSL: &lsl85, Target: &target90, DataType: types.DataScalar},
			{NodeCode: "U-CONC-1", Code: "BRIX", Name: "Concentrate Brix", Unit: "Bx", Role: types.RoleOutput, DataType: types.DataScalar},
			{NodeCode: "U-DRY-1", Code: "MOISTURE", Name: "Final Moisture", Unit: "%", Role: types.RoleOutput, USL: &uslMoist, LSL: &lslMoist, DataType: types.DataScalar},
		}
		for _, p := range params {
			if err := st.UpsertParameter(p); err != nil {
				return fmt.Errorf("seed parameter %s.%s: %w", p.NodeCode, p.Code, err)
			}
		}

		baseProb := 0.05
		risks := []types.Risk{
			{Code: "TOP-YIELD-LOSS", Name: "Batch yield below target", Category: types.RiskTop},
			{Code: "E-EXTRACT-TEMP", Name: "Extraction temperature excursion", Category: types.RiskEquipment, BaseProbability: &baseProb},
			{Code: "E-DRY-MOISTURE", Name: "Dryer moisture out of spec", Category: types.RiskEquipment, BaseProbability: &baseProb},
			{Code: "M-SOLVENT-PURITY", Name: "Off-spec solvent charge", Category: types.RiskMaterial, BaseProbability: &baseProb},
		}
		for _, r := range risks {
			if err := st.UpsertRisk(r); err != nil {
				return fmt.Errorf("seed risk %s: %w", r.Code, err)
			}
		}

		riskEdges := []types.RiskEdge{
			{ChildCode: "E-EXTRACT-TEMP", ParentCode: "TOP-YIELD-LOSS"},
			{ChildCode: "M-SOLVENT-PURITY", ParentCode: "TOP-YIELD-LOSS"},
			{ChildCode: "E-DRY-MOISTURE", ParentCode: "TOP-YIELD-LOSS"},
		}
		for _, re := range riskEdges {
			if err := st.UpsertRiskEdge(re); err != nil {
				return fmt.Errorf("seed risk edge %s->%s: %w", re.ChildCode, re.ParentCode, err)
			}
		}

		actions := []types.ActionDef{
			{
				Code:                "ACT-CHECK-EXT-TEMP",
				Name:                "Check extractor jacket temperature control",
				RiskCode:            "E-EXTRACT-TEMP",
				TargetRole:          types.RoleOperator,
				InstructionTemplate: "Inspect U-EXT-1 jacket temperature control loop; the last reading breached its control limit.",
				Priority:            types.PriorityHigh,
				Category:            "equipment",
			},
			{
				Code:                "ACT-REVIEW-SOLVENT-COA",
				Name:                "Review incoming solvent certificate of analysis",
				RiskCode:            "M-SOLVENT-PURITY",
				TargetRole:          types.RoleQA,
				InstructionTemplate: "Review the certificate of analysis for the solvent charge feeding R-SOLVENT before release.",
				Priority:            types.PriorityMedium,
				Category:            "material",
			},
			{
				Code:                "ACT-ADJUST-DRYER",
				Name:                "Adjust dryer setpoint",
				RiskCode:            "E-DRY-MOISTURE",
				TargetRole:          types.RoleOperator,
				InstructionTemplate: "U-DRY-1 final moisture is trending out of spec; adjust the dryer setpoint and re-sample.",
				Priority:            types.PriorityCritical,
				Category:            "equipment",
			},
			{
				Code:                "ACT-ESCALATE-YIELD",
				Name:                "Escalate sustained yield shortfall",
				RiskCode:            "TOP-YIELD-LOSS",
				TargetRole:          types.RoleTeamLeader,
				InstructionTemplate: "Batch yield has remained below target across BLK-EXT; escalate for root-cause review.",
				Priority:            types.PriorityHigh,
				Category:            "process",
			},
		}
		for _, a := range actions {
			if err := st.UpsertActionDef(a); err != nil {
				return fmt.Errorf("seed action %s: %w", a.Code, err)
			}
		}

		fmt.Printf("seeded %d nodes, %d edges, %d parameters, %d risks, %d risk edges, %d actions\n",
			len(nodes), len(edges), len(params), len(risks), len(riskEdges), len(actions))
		return nil
	},
}
