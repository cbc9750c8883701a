package analyzer

import (
	"fmt"

	"semql/internal/domain"
)

// Synthetic cost-model weights. These are unitless plan weights in the
// spirit of planner cost constants, not milliseconds.
const (
	startupCost   = 10.0
	seqScanCost   = 100.0
	indexScanStep = 25.0
	indexScanMin  = 25.0
	hashJoinCost  = 50.0
	aggregateCost = 75.0
	sortCost      = 60.0

	baseRowsPerTable   = 1000
	joinFanout         = 0.8
	aggregateReduction = 0.1
	defaultRowWidth    = 64
	limitTransferScale = 0.1

	bottleneckThreshold = 1000.0
)

// buildPlan constructs the synthetic operator tree for the given signals:
// one scan per table (the first a sequential scan, later ones index scans on
// the join key), a hash join per additional table, then aggregate and sort
// nodes when grouping or ordering is present. Returns nil when the signals
// reference no tables.
func buildPlan(sig Signals) *domain.PlanNode {
	if len(sig.Tables) == 0 {
		return nil
	}

	root := scanNode(sig.Tables[0], 0)
	for i := 1; i < len(sig.Tables); i++ {
		right := scanNode(sig.Tables[i], i)
		rows := root.EstimatedRows
		if right.EstimatedRows > rows {
			rows = right.EstimatedRows
		}
		root = &domain.PlanNode{
			Kind:          domain.PlanNodeHashJoin,
			Label:         fmt.Sprintf("Hash Join (%s)", sig.Tables[i]),
			Cost:          hashJoinCost,
			EstimatedRows: scaleRows(rows, joinFanout),
			Children:      []*domain.PlanNode{root, right},
		}
	}

	if sig.HasAggregate || sig.HasGroupBy {
		root = &domain.PlanNode{
			Kind:          domain.PlanNodeAggregate,
			Label:         "Aggregate",
			Cost:          aggregateCost,
			EstimatedRows: scaleRows(root.EstimatedRows, aggregateReduction),
			Children:      []*domain.PlanNode{root},
		}
	}

	if sig.HasOrderBy {
		root = &domain.PlanNode{
			Kind:          domain.PlanNodeSort,
			Label:         "Sort",
			Cost:          sortCost,
			EstimatedRows: root.EstimatedRows,
			Children:      []*domain.PlanNode{root},
		}
	}

	finalizeCosts(root)
	return root
}

// scanNode models table access: the first table pays a full sequential scan,
// later tables are assumed to have an index on the join key and get cheaper
// with ordinal position, floored at indexScanMin.
func scanNode(table string, ordinal int) *domain.PlanNode {
	if ordinal == 0 {
		return &domain.PlanNode{
			Kind:          domain.PlanNodeSeqScan,
			Label:         fmt.Sprintf("Seq Scan on %s", table),
			Cost:          seqScanCost,
			EstimatedRows: baseRowsPerTable,
		}
	}
	cost := seqScanCost - indexScanStep*float64(ordinal)
	if cost < indexScanMin {
		cost = indexScanMin
	}
	return &domain.PlanNode{
		Kind:          domain.PlanNodeIndexScan,
		Label:         fmt.Sprintf("Index Scan on %s", table),
		Cost:          cost,
		EstimatedRows: baseRowsPerTable,
	}
}

// finalizeCosts fills in cumulative costs bottom-up and flags bottlenecks.
func finalizeCosts(n *domain.PlanNode) {
	total := n.Cost
	for _, c := range n.Children {
		finalizeCosts(c)
		total += c.TotalCost
	}
	n.TotalCost = total
	if n.TotalCost > bottleneckThreshold {
		n.Bottleneck = true
		n.Warnings = append(n.Warnings,
			fmt.Sprintf("cumulative cost %.0f exceeds bottleneck threshold %.0f", n.TotalCost, bottleneckThreshold))
	}
}

func scaleRows(rows int64, factor float64) int64 {
	scaled := int64(float64(rows) * factor)
	if scaled < 1 {
		return 1
	}
	return scaled
}
