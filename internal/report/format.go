// Package report renders an AnalysisReport into an ordered list of
// human-readable paragraphs (headline, status badge, each issue with
// its evidence, warnings, insights). Rendering is pure and
// side-effect-free: the same report always yields the same paragraphs.
package report

import (
	"fmt"
	"strings"

	"lsscore/internal/types"
)

// Render returns the ordered paragraphs for report.
func Render(r *types.AnalysisReport) []string {
	var paragraphs []string

	paragraphs = append(paragraphs, headline(r))
	paragraphs = append(paragraphs, fmt.Sprintf("Status: %s", r.Status))

	for _, issue := range r.CriticalIssues {
		paragraphs = append(paragraphs, issueParagraph(issue))
	}
	for _, issue := range r.Warnings {
		paragraphs = append(paragraphs, issueParagraph(issue))
	}

	for _, insight := range r.Insights {
		paragraphs = append(paragraphs, insight)
	}

	return paragraphs
}

func headline(r *types.AnalysisReport) string {
	return fmt.Sprintf("Analysis of %s %q: %d critical issue(s), %d warning(s)",
		r.Dimension, r.Key, len(r.CriticalIssues), len(r.Warnings))
}

func issueParagraph(issue types.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s/%s", issue.Severity, issue.NodeCode, issue.ParamCode)
	if issue.NodeName != "" && issue.NodeName != issue.NodeCode {
		fmt.Fprintf(&b, " (%s)", issue.NodeName)
	}
	if issue.Errored {
		fmt.Fprintf(&b, ": %s", issue.ErrorDetail)
		return b.String()
	}
	fmt.Fprintf(&b, ": current=%.3f", issue.CurrentValue)
	if issue.TargetValue != nil {
		fmt.Fprintf(&b, " target=%.3f", *issue.TargetValue)
	}
	if issue.Cpk != nil {
		fmt.Fprintf(&b, " Cpk=%.3f", *issue.Cpk)
	}
	if issue.ProcessStatus != "" {
		fmt.Fprintf(&b, " status=%s", issue.ProcessStatus)
	}
	if issue.ViolationCount > 0 {
		fmt.Fprintf(&b, " violations=%d", issue.ViolationCount)
	}
	if issue.BatchID != "" {
		fmt.Fprintf(&b, " batch=%s", issue.BatchID)
	}
	return b.String()
}
