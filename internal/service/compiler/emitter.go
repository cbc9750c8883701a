package compiler

import (
	"strconv"
	"strings"

	"semql/internal/domain"
)

// Emit renders a resolved logical query and its join path into SQL text for
// the given dialect.
//
// Clause order: SELECT (dimensions, then aliased measures), FROM the path
// root, one JOIN per path step, WHERE, GROUP BY (only when a measure is
// present), ORDER BY, then paging.
func Emit(model *domain.SemanticModel, dims []domain.Dimension, measures []domain.Measure, q *domain.LogicalQuery, path *domain.JoinPath, dialect Dialect) (string, error) {
	if len(dims) == 0 && len(measures) == 0 {
		return "", domain.ErrEmptyProjection("query requests neither dimensions nor measures")
	}

	selectParts := make([]string, 0, len(dims)+len(measures))
	groupByParts := make([]string, 0, len(dims))
	for _, d := range dims {
		col := dialect.QualifyColumn(d.Table, d.Column)
		part := col
		if d.Name != d.Column {
			part += " AS " + dialect.QuoteIdent(d.Name)
		}
		selectParts = append(selectParts, part)
		groupByParts = append(groupByParts, col)
	}
	for _, m := range measures {
		selectParts = append(selectParts, aggregateSQL(m, dialect)+" AS "+dialect.QuoteIdent(m.Name))
	}

	root := model.Table(path.Root)
	if root == nil {
		return "", domain.ErrNotFound("table %q not found in model %q", path.Root, model.Name)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selectParts, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(dialect.QualifyTable(root.Schema, root.Name))

	for _, step := range path.Steps {
		t := model.Table(step.Table)
		if t == nil {
			return "", domain.ErrNotFound("table %q not found in model %q", step.Table, model.Name)
		}
		rel := step.Relationship
		sb.WriteString(" ")
		sb.WriteString(joinKindSQL(rel.JoinKind))
		sb.WriteString(" ")
		sb.WriteString(dialect.QualifyTable(t.Schema, t.Name))
		sb.WriteString(" ON ")
		sb.WriteString(dialect.QualifyColumn(rel.FromTable, rel.FromColumn))
		sb.WriteString(" = ")
		sb.WriteString(dialect.QualifyColumn(rel.ToTable, rel.ToColumn))
	}

	if len(q.Filters) > 0 {
		predicates := make([]string, 0, len(q.Filters))
		for _, f := range q.Filters {
			p, err := renderFilter(f, dialect)
			if err != nil {
				return "", err
			}
			predicates = append(predicates, p)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(predicates, " AND "))
	}

	if len(measures) > 0 && len(groupByParts) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(groupByParts, ", "))
	}

	if len(q.OrderBy) > 0 {
		terms := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			term := dialect.QuoteIdent(o.Column)
			if o.Table != "" {
				term = dialect.QualifyColumn(o.Table, o.Column)
			}
			if o.Descending {
				term += " DESC"
			}
			terms = append(terms, term)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}

	if clause := dialect.LimitClause(q.Limit, q.Offset); clause != "" {
		sb.WriteString(" ")
		sb.WriteString(clause)
	}

	return sb.String(), nil
}

// aggregateSQL maps a measure to its SQL aggregate expression.
func aggregateSQL(m domain.Measure, dialect Dialect) string {
	col := dialect.QualifyColumn(m.Table, m.Column)
	if m.Aggregate == domain.AggregateCountDistinct {
		return "COUNT(DISTINCT " + col + ")"
	}
	return m.Aggregate + "(" + col + ")"
}

func joinKindSQL(kind string) string {
	switch kind {
	case domain.JoinKindLeft:
		return "LEFT JOIN"
	case domain.JoinKindRight:
		return "RIGHT JOIN"
	case domain.JoinKindFull:
		return "FULL JOIN"
	default:
		return "INNER JOIN"
	}
}

func renderFilter(f domain.Filter, dialect Dialect) (string, error) {
	col := dialect.QualifyColumn(f.Table, f.Column)
	switch f.Operator {
	case domain.OpIsNull:
		return col + " IS NULL", nil
	case domain.OpIsNotNull:
		return col + " IS NOT NULL", nil
	}

	op, ok := comparisonSQL[f.Operator]
	if !ok {
		return "", domain.ErrValidation("unknown filter operator %q", f.Operator)
	}
	value, err := renderValue(f.Value)
	if err != nil {
		return "", err
	}
	return col + " " + op + " " + value, nil
}

var comparisonSQL = map[string]string{
	domain.OpEqual:        "=",
	domain.OpNotEqual:     "<>",
	domain.OpLessThan:     "<",
	domain.OpLessEqual:    "<=",
	domain.OpGreaterThan:  ">",
	domain.OpGreaterEqual: ">=",
	domain.OpLike:         "LIKE",
}

// renderValue renders a pre-validated scalar filter value. Strings are
// single-quoted, numerics unquoted, booleans uppercased.
func renderValue(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'", nil
	case bool:
		if val {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	default:
		return "", domain.ErrValidation("filter value of type %T is not a supported scalar", v)
	}
}
