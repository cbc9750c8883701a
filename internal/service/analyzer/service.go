package analyzer

import (
	"log/slog"
	"sync"

	"semql/internal/domain"
)

// Service estimates cost and proposes optimizations. Plans derived from SQL
// text are memoized by query hash; the cache is safe for concurrent use.
type Service struct {
	logger *slog.Logger

	mu    sync.RWMutex
	plans map[string]domain.CachedQueryPlan
}

// NewService creates an analyzer Service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		plans:  map[string]domain.CachedQueryPlan{},
	}
}

// EstimateCost analyzes free-form SQL text and returns a heuristic cost
// estimate. It never fails: text with no recognizable FROM clause yields a
// zero-confidence estimate.
func (s *Service) EstimateCost(sqlText string) domain.CostEstimate {
	_, est := s.planFor(sqlText)
	return est
}

// Plan returns the synthetic plan tree for SQL text, or nil when no tables
// could be recognized.
func (s *Service) Plan(sqlText string) *domain.PlanNode {
	root, _ := s.planFor(sqlText)
	return root
}

// Analyze runs signal extraction, cost estimation, and every suggestion rule
// over free-form SQL text.
func (s *Service) Analyze(sqlText string) domain.OptimizationResult {
	hash := domain.QueryHash(sqlText)
	sig := ExtractSignals(sqlText)
	root, est := estimate(sig, ConfidenceHeuristic)
	s.storePlan(hash, root, est)

	result := suggest(sig, root, est, hash)
	s.logger.Debug("analyzed query",
		"hash", hash,
		"status", result.Status,
		"suggestions", len(result.Suggestions),
		"complexity", est.Complexity)
	return result
}

// EstimateLogical estimates cost from a compiled query's exact structure.
// This path carries higher confidence than text analysis because nothing is
// guessed.
func (s *Service) EstimateLogical(path domain.JoinPath, q domain.LogicalQuery, measureCount, dimensionCount int) domain.CostEstimate {
	sig := LogicalSignals(path, q, measureCount, dimensionCount)
	_, est := estimate(sig, ConfidenceLogical)
	return est
}

func (s *Service) planFor(sqlText string) (*domain.PlanNode, domain.CostEstimate) {
	hash := domain.QueryHash(sqlText)

	s.mu.RLock()
	cached, ok := s.plans[hash]
	s.mu.RUnlock()
	if ok {
		return cached.Root, cached.Estimate
	}

	sig := ExtractSignals(sqlText)
	root, est := estimate(sig, ConfidenceHeuristic)
	s.storePlan(hash, root, est)
	return root, est
}

func (s *Service) storePlan(hash string, root *domain.PlanNode, est domain.CostEstimate) {
	s.mu.Lock()
	s.plans[hash] = domain.CachedQueryPlan{QueryHash: hash, Root: root, Estimate: est}
	s.mu.Unlock()
}
