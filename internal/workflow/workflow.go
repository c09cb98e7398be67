// Package workflow runs the per-dimension analysis pass: for each
// (node, param) group in a DataContext, invoke the spc tool, derive a
// severity, and synthesise a report. Running the same DataContext twice
// yields an identical report; all outputs are ordered deterministically.
package workflow

import (
	"context"
	"fmt"
	"sort"

	"lsscore/internal/logging"
	"lsscore/internal/types"
)

// ToolRunner is the subset of tools.Registry the workflow depends on.
type ToolRunner interface {
	Run(ctx context.Context, key string, data interface{}, config map[string]interface{}) (types.Result, error)
}

// Workflow evaluates DataContexts into AnalysisReports.
type Workflow struct {
	tools ToolRunner
}

// New returns a Workflow backed by tools.
func New(tools ToolRunner) *Workflow {
	return &Workflow{tools: tools}
}

// Evaluate runs the spc tool over every group in dc and assembles an
// AnalysisReport.
func (w *Workflow) Evaluate(ctx context.Context, dc *types.DataContext) (*types.AnalysisReport, error) {
	report := &types.AnalysisReport{
		Dimension: dc.Dimension,
		Key:       dc.Key,
		Metadata:  dc.Metadata,
	}

	keys := sortedGroupKeys(dc.Groups)

	var critical, warnings []types.Issue
	variabilityNotes := 0
	anyErrored := false

	for _, key := range keys {
		measurements := dc.Groups[key]
		values := make([]float64, len(measurements))
		for i, m := range measurements {
			values[i] = m.Value
		}

		issue, spcResult, err := w.evaluateGroup(ctx, dc, key, values)
		if err != nil {
			return nil, err
		}

		if issue.Errored {
			anyErrored = true
			warnings = append(warnings, issue)
		} else {
			switch issue.Severity {
			case types.SeverityCritical, types.SeverityHigh:
				critical = append(critical, issue)
			case types.SeverityWarning:
				warnings = append(warnings, issue)
			}
		}

		if spcResult != nil {
			if label, ok := spcResult.Result["process_status"]; ok && label == types.ProcessStatusOutOfControl {
				variabilityNotes++
			}
		}
	}

	sortIssues(critical)
	sortIssues(warnings)

	report.CriticalIssues = critical
	report.Warnings = warnings

	switch {
	case len(critical) > 0 && hasSeverity(critical, types.SeverityCritical):
		report.Status = types.SeverityCritical
	case len(critical) > 0 || len(warnings) > 0 || anyErrored:
		report.Status = types.SeverityWarning
	default:
		report.Status = types.SeverityNormal
	}

	report.Insights = synthesizeInsights(report, variabilityNotes)

	logging.Workflow("evaluated %s/%s: status=%s critical=%d warnings=%d", dc.Dimension, dc.Key, report.Status, len(critical), len(warnings))
	return report, nil
}

func (w *Workflow) evaluateGroup(ctx context.Context, dc *types.DataContext, key types.GroupKey, values []float64) (types.Issue, *types.Result, error) {
	if len(values) < 2 {
		return types.Issue{
			NodeCode: key.NodeCode, ParamCode: key.ParamCode, Severity: types.SeverityNormal,
			Errored: true, ErrorDetail: "insufficient data",
		}, nil, nil
	}

	config := map[string]interface{}{}
	if def, ok := dc.Params[key]; ok {
		if def.USL != nil {
			config["usl"] = *def.USL
		}
		if def.LSL != nil {
			config["lsl"] = *def.LSL
		}
		if def.Target != nil {
			config["target"] = *def.Target
		}
	}

	result, err := w.tools.Run(ctx, "spc", values, config)
	if err != nil {
		return types.Issue{}, nil, fmt.Errorf("workflow: spc group %s/%s: %w", key.NodeCode, key.ParamCode, err)
	}
	if !result.Success {
		return types.Issue{
			NodeCode: key.NodeCode, ParamCode: key.ParamCode, Severity: types.SeverityNormal,
			Errored: true, ErrorDetail: fmt.Sprintf("%v", result.Errors),
		}, &result, nil
	}

	var cpk *float64
	if v, ok := result.Result["cpk"]; ok && v != nil {
		if f, ok := v.(*float64); ok {
			cpk = f
		}
	}
	processStatus, _ := result.Result["process_status"].(string)
	violationCount := 0
	if v, ok := result.Result["violations"]; ok {
		if vs, ok := v.([]types.SPCViolation); ok {
			violationCount = len(vs)
		}
	}

	severity := deriveSeverity(processStatus, cpk, violationCount)

	nodeName := key.NodeCode
	if n, ok := dc.Nodes[key.NodeCode]; ok {
		nodeName = n.Name
	}

	issue := types.Issue{
		NodeCode: key.NodeCode, NodeName: nodeName, ParamCode: key.ParamCode,
		Severity: severity, ProcessStatus: processStatus, Cpk: cpk,
		CurrentValue: values[len(values)-1], ViolationCount: violationCount,
	}
	if def, ok := dc.Params[key]; ok {
		issue.TargetValue = def.Target
	}
	if dc.Dimension == types.DimensionBatch {
		issue.BatchID = dc.Key
	}

	return issue, &result, nil
}

// deriveSeverity implements §4.4's per-group severity rule.
func deriveSeverity(processStatus string, cpk *float64, violationCount int) types.Severity {
	if processStatus == types.ProcessStatusOutOfControl {
		return types.SeverityCritical
	}
	if cpk != nil {
		switch {
		case *cpk < 0.8:
			return types.SeverityCritical
		case *cpk < 1.0:
			return types.SeverityHigh
		case *cpk < 1.33:
			return types.SeverityWarning
		}
		return types.SeverityNormal
	}
	if violationCount > 0 {
		return types.SeverityWarning
	}
	return types.SeverityNormal
}

func hasSeverity(issues []types.Issue, sev types.Severity) bool {
	for _, i := range issues {
		if i.Severity == sev {
			return true
		}
	}
	return false
}

func sortedGroupKeys(groups map[types.GroupKey][]types.Measurement) []types.GroupKey {
	keys := make([]types.GroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].NodeCode != keys[j].NodeCode {
			return keys[i].NodeCode < keys[j].NodeCode
		}
		return keys[i].ParamCode < keys[j].ParamCode
	})
	return keys
}

// sortIssues orders issues by descending severity, then ascending
// param_code, the workflow's determinism guarantee.
func sortIssues(issues []types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Severity.Rank() != issues[j].Severity.Rank() {
			return issues[i].Severity.Rank() > issues[j].Severity.Rank()
		}
		return issues[i].ParamCode < issues[j].ParamCode
	})
}

func synthesizeInsights(report *types.AnalysisReport, variabilityNotes int) []string {
	insights := []string{fmt.Sprintf("status: %s", report.Status)}

	top := report.CriticalIssues
	if len(top) > 3 {
		top = top[:3]
	}
	for _, issue := range top {
		insights = append(insights, fmt.Sprintf("%s/%s: %s (%s)", issue.NodeCode, issue.ParamCode, issue.Severity, issue.ProcessStatus))
	}

	if len(report.Warnings) > 0 {
		insights = append(insights, fmt.Sprintf("%d warnings", len(report.Warnings)))
	}
	if variabilityNotes > 0 {
		insights = append(insights, fmt.Sprintf("%d group(s) out of control", variabilityNotes))
	}

	return insights
}
