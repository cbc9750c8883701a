package domain

// Plan node operator kinds.
const (
	PlanNodeSeqScan   = "SEQUENTIAL_SCAN"
	PlanNodeIndexScan = "INDEX_SCAN"
	PlanNodeHashJoin  = "HASH_JOIN"
	PlanNodeAggregate = "AGGREGATE"
	PlanNodeSort      = "SORT"
)

// Complexity classification tiers.
const (
	ComplexitySimple   = "SIMPLE"
	ComplexityModerate = "MODERATE"
	ComplexityComplex  = "COMPLEX"
)

// Named cost components reported on a CostEstimate.
const (
	CostComponentIO      = "io"
	CostComponentCPU     = "cpu"
	CostComponentStartup = "startup"
)

// PlanNode is one synthetic operator in a cost-estimation tree. Costs are
// model weights, not measurements. Invariant: TotalCost >= Cost plus the sum
// of the children's TotalCost.
type PlanNode struct {
	Kind          string
	Label         string
	EstimatedRows int64
	Cost          float64
	TotalCost     float64
	Children      []*PlanNode
	Bottleneck    bool
	Warnings      []string
}

// Walk visits the node and all descendants depth-first.
func (n *PlanNode) Walk(fn func(*PlanNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// CostComponent is one named share of the total estimated cost.
type CostComponent struct {
	Name    string
	Cost    float64
	Percent float64
}

// CostEstimate is the aggregate output of the cost model. Components always
// sum to TotalCost. Confidence is 1-scaled: high for plans derived from a
// LogicalQuery, conservative for heuristic text analysis, zero when the text
// yielded no usable signals.
type CostEstimate struct {
	TotalCost         float64
	IOCost            float64
	CPUCost           float64
	StartupCost       float64
	EstimatedRows     int64
	RowWidth          int
	DataTransferBytes int64
	Components        []CostComponent
	Complexity        string
	Confidence        float64
}

// CachedQueryPlan pairs a plan tree and its estimate under a query hash so
// repeated estimates of identical text are served from memory.
type CachedQueryPlan struct {
	QueryHash string
	Root      *PlanNode
	Estimate  CostEstimate
}
