package analyzer

import "semql/internal/domain"

// Confidence levels of the two estimation paths.
const (
	ConfidenceLogical   = 0.95
	ConfidenceHeuristic = 0.85
)

// Complexity weights and tier boundaries.
const (
	joinComplexityWeight     = 2
	subqueryComplexityWeight = 3
	costComplexityThreshold  = 1000.0
	simpleMaxPoints          = 2
	moderateMaxPoints        = 5
)

// estimate runs the cost model over the signals and returns the plan tree
// plus the aggregate estimate. Signals with no recognizable FROM produce a
// nil plan and a zero-confidence estimate so callers always get a result.
func estimate(sig Signals, confidence float64) (*domain.PlanNode, domain.CostEstimate) {
	if !sig.HasFrom || len(sig.Tables) == 0 {
		return nil, domain.CostEstimate{
			Complexity: domain.ComplexitySimple,
			RowWidth:   defaultRowWidth,
			Confidence: 0,
		}
	}

	root := buildPlan(sig)

	var ioCost, cpuCost float64
	root.Walk(func(n *domain.PlanNode) {
		switch n.Kind {
		case domain.PlanNodeSeqScan, domain.PlanNodeIndexScan:
			ioCost += n.Cost
		default:
			cpuCost += n.Cost
		}
	})
	total := ioCost + cpuCost + startupCost

	transfer := root.EstimatedRows * defaultRowWidth
	if sig.HasLimit {
		transfer = int64(float64(transfer) * limitTransferScale)
	}

	est := domain.CostEstimate{
		TotalCost:         total,
		IOCost:            ioCost,
		CPUCost:           cpuCost,
		StartupCost:       startupCost,
		EstimatedRows:     root.EstimatedRows,
		RowWidth:          defaultRowWidth,
		DataTransferBytes: transfer,
		Complexity:        classifyComplexity(total, sig.JoinCount, sig.SubqueryCount),
		Confidence:        confidence,
	}
	est.Components = []domain.CostComponent{
		component(domain.CostComponentIO, ioCost, total),
		component(domain.CostComponentCPU, cpuCost, total),
		component(domain.CostComponentStartup, startupCost, total),
	}
	return root, est
}

// classifyComplexity buckets a query into three tiers from weighted points:
// joins weigh 2, subqueries 3, and a high total cost adds one more. The
// function is monotonic in every argument.
func classifyComplexity(totalCost float64, joins, subqueries int) string {
	points := joins*joinComplexityWeight + subqueries*subqueryComplexityWeight
	if totalCost > costComplexityThreshold {
		points++
	}
	switch {
	case points <= simpleMaxPoints:
		return domain.ComplexitySimple
	case points <= moderateMaxPoints:
		return domain.ComplexityModerate
	default:
		return domain.ComplexityComplex
	}
}

func component(name string, cost, total float64) domain.CostComponent {
	c := domain.CostComponent{Name: name, Cost: cost}
	if total > 0 {
		c.Percent = cost / total * 100
	}
	return c
}
