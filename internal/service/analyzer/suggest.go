package analyzer

import (
	"fmt"

	"semql/internal/domain"
)

// Escalation thresholds for the overall optimization status.
const (
	needsAttentionCost     = 500.0
	criticalCost           = 5000.0
	criticalSuggestions    = 5
	ioBoundRatio           = 2.0
	multiJoinBottleneck    = 3
	indexImprovementPct    = 40
	indexBytesPerEntry     = 16
	indexFixedOverheadSize = 4096
)

// suggest evaluates every advisory rule independently over the extracted
// signals and the cost estimate. Rules are not mutually exclusive: a query
// can collect several suggestions at once.
func suggest(sig Signals, root *domain.PlanNode, est domain.CostEstimate, queryHash string) domain.OptimizationResult {
	result := domain.OptimizationResult{
		QueryHash: queryHash,
		Status:    domain.StatusOptimized,
		Estimate:  est,
	}

	if !sig.HasWhere && len(sig.Tables) > 0 {
		result.Suggestions = append(result.Suggestions, domain.Suggestion{
			Category:             domain.SuggestionAddFilter,
			Priority:             domain.PriorityHigh,
			Description:          "query scans without a WHERE clause; add a filter to reduce rows read",
			EstimatedImprovement: 70,
		})
	}
	if sig.SelectStar {
		result.Suggestions = append(result.Suggestions, domain.Suggestion{
			Category:             domain.SuggestionProjectColumns,
			Priority:             domain.PriorityMedium,
			Description:          "SELECT * fetches every column; project only the columns you need",
			EstimatedImprovement: 20,
		})
	}
	if !sig.HasLimit && !sig.HasAggregate {
		result.Suggestions = append(result.Suggestions, domain.Suggestion{
			Category:             domain.SuggestionAddLimit,
			Priority:             domain.PriorityMedium,
			Description:          "unbounded result set; add a LIMIT clause",
			EstimatedImprovement: 30,
			AutoApplicable:       true,
		})
	}
	if sig.SubqueryCount > 0 {
		result.Suggestions = append(result.Suggestions, domain.Suggestion{
			Category:             domain.SuggestionSubqueryToJoin,
			Priority:             domain.PriorityHigh,
			Description:          fmt.Sprintf("%d subquerie(s) detected; rewriting as joins usually lets the planner do better", sig.SubqueryCount),
			EstimatedImprovement: 50,
		})
	}

	result.IndexSuggestions = indexSuggestions(sig, est)
	result.Bottlenecks = describeBottlenecks(sig, root, est)

	bottleneckFlagged := false
	if root != nil {
		root.Walk(func(n *domain.PlanNode) {
			if n.Bottleneck {
				bottleneckFlagged = true
			}
		})
	}

	if bottleneckFlagged || est.TotalCost > needsAttentionCost {
		result.Status = domain.StatusNeedsAttention
	}
	findings := len(result.Suggestions) + len(result.IndexSuggestions)
	if est.TotalCost > criticalCost || findings > criticalSuggestions {
		result.Status = domain.StatusCritical
	}
	return result
}

// indexSuggestions proposes one candidate index per distinct (table, column)
// pair seen in the WHERE clause. The CREATE INDEX text is advisory only.
func indexSuggestions(sig Signals, est domain.CostEstimate) []domain.IndexSuggestion {
	var out []domain.IndexSuggestion
	seen := map[string]bool{}
	for _, tc := range sig.WhereColumns {
		if tc.Table == "" || tc.Column == "" {
			continue
		}
		key := tc.Table + "." + tc.Column
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.IndexSuggestion{
			Table:   tc.Table,
			Columns: []string{tc.Column},
			StatementSQL: fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s (%s)",
				tc.Table, tc.Column, tc.Table, tc.Column),
			EstimatedSizeBytes:   est.EstimatedRows*indexBytesPerEntry + indexFixedOverheadSize,
			EstimatedImprovement: indexImprovementPct,
		})
	}
	return out
}

// describeBottlenecks derives free-text bottleneck summaries from the cost
// profile and join shape.
func describeBottlenecks(sig Signals, root *domain.PlanNode, est domain.CostEstimate) []string {
	var out []string
	if est.CPUCost > 0 && est.IOCost > est.CPUCost*ioBoundRatio {
		out = append(out, "I/O bound: scan cost dominates the plan")
	} else if est.IOCost > 0 && est.CPUCost > est.IOCost*ioBoundRatio {
		out = append(out, "CPU bound: join/aggregate/sort cost dominates the plan")
	}
	if sig.JoinCount >= multiJoinBottleneck {
		out = append(out, fmt.Sprintf("multiple joins: %d tables combined in one query", sig.JoinCount+1))
	}
	if root != nil {
		root.Walk(func(n *domain.PlanNode) {
			if n.Bottleneck {
				out = append(out, fmt.Sprintf("%s: %s", n.Label, n.Warnings[0]))
			}
		})
	}
	return out
}
