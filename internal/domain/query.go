package domain

// Filter operators accepted by LogicalQuery filters.
const (
	OpEqual        = "eq"
	OpNotEqual     = "neq"
	OpLessThan     = "lt"
	OpLessEqual    = "lte"
	OpGreaterThan  = "gt"
	OpGreaterEqual = "gte"
	OpLike         = "like"
	OpIsNull       = "is_null"
	OpIsNotNull    = "is_not_null"
)

// Filter is one AND-joined predicate of a logical query. Value must be a
// pre-validated scalar (string, numeric, or bool); it is ignored for the
// null-check operators.
type Filter struct {
	Table    string
	Column   string
	Operator string
	Value    interface{}
}

// OrderTerm is one ORDER BY entry. Table may be empty when Column refers to a
// projected alias (a measure or dimension name).
type OrderTerm struct {
	Table      string
	Column     string
	Descending bool
}

// LogicalQuery is the caller-facing description of a data request: which
// declared dimensions and measures to project, plus filters, ordering, and
// paging. It is ephemeral and never persisted by the core.
type LogicalQuery struct {
	Dimensions []string
	Measures   []string
	Filters    []Filter
	OrderBy    []OrderTerm
	Limit      *int
	Offset     *int
}

// Validate checks that the query is structurally sound. Name resolution
// against a model happens in the compiler.
func (q *LogicalQuery) Validate() error {
	if len(q.Dimensions) == 0 && len(q.Measures) == 0 {
		return ErrEmptyProjection("query requests neither dimensions nor measures")
	}
	for _, f := range q.Filters {
		if f.Table == "" || f.Column == "" {
			return ErrValidation("filter requires table and column")
		}
		switch f.Operator {
		case OpEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan,
			OpGreaterEqual, OpLike, OpIsNull, OpIsNotNull:
		default:
			return ErrValidation("unknown filter operator %q", f.Operator)
		}
	}
	if q.Limit != nil && *q.Limit < 0 {
		return ErrValidation("limit must be >= 0")
	}
	if q.Offset != nil && *q.Offset < 0 {
		return ErrValidation("offset must be >= 0")
	}
	return nil
}

// JoinStep records one relationship used to attach a table to the join tree.
type JoinStep struct {
	Table        string
	Relationship Relationship
}

// JoinPath is an ordered join tree: the root table plus one step per attached
// table. Invariant: acyclic, every table appears exactly once.
type JoinPath struct {
	Root  string
	Steps []JoinStep
}

// Tables returns all tables on the path, root first, in attachment order.
func (p *JoinPath) Tables() []string {
	out := make([]string, 0, len(p.Steps)+1)
	out = append(out, p.Root)
	for _, s := range p.Steps {
		out = append(out, s.Table)
	}
	return out
}
