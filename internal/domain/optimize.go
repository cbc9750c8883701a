package domain

// Optimization result status, in escalation order.
const (
	StatusOptimized      = "OPTIMIZED"
	StatusNeedsAttention = "NEEDS_ATTENTION"
	StatusCritical       = "CRITICAL"
)

// Suggestion priorities.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Suggestion categories.
const (
	SuggestionAddFilter      = "ADD_FILTER"
	SuggestionProjectColumns = "PROJECT_COLUMNS"
	SuggestionAddLimit       = "ADD_LIMIT"
	SuggestionSubqueryToJoin = "SUBQUERY_TO_JOIN"
)

// Suggestion is one advisory rewrite proposal for a query.
type Suggestion struct {
	Category             string
	Priority             string
	Description          string
	EstimatedImprovement int // percent
	AutoApplicable       bool
}

// IndexSuggestion proposes a candidate index for a (table, column) pair seen
// in a WHERE clause. StatementSQL is advisory text; the core never runs DDL.
type IndexSuggestion struct {
	Table                string
	Columns              []string
	StatementSQL         string
	EstimatedSizeBytes   int64
	EstimatedImprovement int // percent
}

// OptimizationResult is the full advisory output for one analyzed query.
type OptimizationResult struct {
	QueryHash        string
	Status           string
	Estimate         CostEstimate
	Suggestions      []Suggestion
	IndexSuggestions []IndexSuggestion
	Bottlenecks      []string
}
