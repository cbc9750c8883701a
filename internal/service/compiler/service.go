// Package compiler turns logical queries against a semantic model into
// dialect-specific SQL: name resolution, join-path discovery, and emission.
package compiler

import (
	"log/slog"

	"semql/internal/catalog"
	"semql/internal/domain"
)

// Service compiles logical queries for one catalog.
type Service struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewService creates a compiler Service.
func NewService(cat *catalog.Catalog, logger *slog.Logger) *Service {
	return &Service{catalog: cat, logger: logger}
}

// CompiledQuery is the compiler output: the SQL text plus the join metadata
// the cost model reuses.
type CompiledQuery struct {
	SQL        string
	Dialect    Dialect
	QueryHash  string
	Path       domain.JoinPath
	Dimensions []domain.Dimension
	Measures   []domain.Measure
	Query      domain.LogicalQuery
}

// Compile resolves the query's dimension and measure names, finds a join
// path over the referenced tables, and emits SQL for the dialect.
func (s *Service) Compile(q domain.LogicalQuery, dialect Dialect) (*CompiledQuery, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	dims := make([]domain.Dimension, 0, len(q.Dimensions))
	for _, name := range q.Dimensions {
		d, err := s.catalog.ResolveDimension(name)
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	measures := make([]domain.Measure, 0, len(q.Measures))
	for _, name := range q.Measures {
		m, err := s.catalog.ResolveMeasure(name)
		if err != nil {
			return nil, err
		}
		measures = append(measures, m)
	}

	model := s.catalog.Snapshot()

	// Referenced tables in first-use order: dimensions, measures, filters.
	var tables []string
	seen := map[string]bool{}
	addTable := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			tables = append(tables, name)
		}
	}
	for _, d := range dims {
		addTable(d.Table)
	}
	for _, m := range measures {
		addTable(m.Table)
	}
	for _, f := range q.Filters {
		addTable(f.Table)
	}

	path, err := ResolveJoinPath(&model, tables)
	if err != nil {
		return nil, err
	}

	sqlText, err := Emit(&model, dims, measures, &q, path, dialect)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("compiled logical query",
		"model", model.Name,
		"dialect", string(dialect),
		"tables", len(tables),
		"joins", len(path.Steps))

	return &CompiledQuery{
		SQL:        sqlText,
		Dialect:    dialect,
		QueryHash:  domain.QueryHash(sqlText),
		Path:       *path,
		Dimensions: dims,
		Measures:   measures,
		Query:      q,
	}, nil
}
