package domain

import "unicode/utf8"

const (
	MaxSemanticNameLength = 255

	AggregateSum           = "SUM"
	AggregateAverage       = "AVG"
	AggregateMin           = "MIN"
	AggregateMax           = "MAX"
	AggregateCount         = "COUNT"
	AggregateCountDistinct = "COUNT_DISTINCT"

	CardinalityOneToOne   = "ONE_TO_ONE"
	CardinalityOneToMany  = "ONE_TO_MANY"
	CardinalityManyToMany = "MANY_TO_MANY"

	JoinKindInner = "INNER"
	JoinKindLeft  = "LEFT"
	JoinKindRight = "RIGHT"
	JoinKindFull  = "FULL"
)

// Column describes one physical column of a table.
type Column struct {
	Name string
	Type string
}

// Table describes one physical table registered in a semantic model.
type Table struct {
	Name    string
	Schema  string
	Columns []Column
}

// Column returns the named column, or nil when absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Validate checks that the table definition is well-formed.
func (t *Table) Validate() error {
	if t.Name == "" {
		return ErrValidation("table name is required")
	}
	if utf8.RuneCountInString(t.Name) > MaxSemanticNameLength {
		return ErrValidation("table name must be <= %d characters", MaxSemanticNameLength)
	}
	seen := map[string]bool{}
	for _, c := range t.Columns {
		if c.Name == "" {
			return ErrValidation("table %q has a column with no name", t.Name)
		}
		if seen[c.Name] {
			return ErrValidation("table %q declares column %q twice", t.Name, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Relationship defines a join edge between two tables of a semantic model.
type Relationship struct {
	FromTable   string
	FromColumn  string
	ToTable     string
	ToColumn    string
	Cardinality string
	JoinKind    string
}

// Connects reports whether the relationship links the two given tables, in
// either direction.
func (r *Relationship) Connects(a, b string) bool {
	return (r.FromTable == a && r.ToTable == b) || (r.FromTable == b && r.ToTable == a)
}

// Other returns the opposite endpoint of the relationship, or "" when the
// given table is not an endpoint.
func (r *Relationship) Other(table string) string {
	switch table {
	case r.FromTable:
		return r.ToTable
	case r.ToTable:
		return r.FromTable
	}
	return ""
}

// Validate checks that the relationship definition is well-formed. Table
// existence is checked by the catalog, not here.
func (r *Relationship) Validate() error {
	if r.FromTable == "" || r.FromColumn == "" {
		return ErrValidation("relationship from_table and from_column are required")
	}
	if r.ToTable == "" || r.ToColumn == "" {
		return ErrValidation("relationship to_table and to_column are required")
	}
	switch r.Cardinality {
	case CardinalityOneToOne, CardinalityOneToMany, CardinalityManyToMany:
	default:
		return ErrValidation("cardinality must be ONE_TO_ONE, ONE_TO_MANY, or MANY_TO_MANY")
	}
	switch r.JoinKind {
	case JoinKindInner, JoinKindLeft, JoinKindRight, JoinKindFull:
	default:
		return ErrValidation("join_kind must be INNER, LEFT, RIGHT, or FULL")
	}
	return nil
}

// Measure defines a named aggregation over a column.
type Measure struct {
	Name      string
	Table     string
	Column    string
	Aggregate string
}

// Validate checks that the measure definition is well-formed.
func (m *Measure) Validate() error {
	if m.Name == "" {
		return ErrValidation("measure name is required")
	}
	if utf8.RuneCountInString(m.Name) > MaxSemanticNameLength {
		return ErrValidation("measure name must be <= %d characters", MaxSemanticNameLength)
	}
	if m.Table == "" || m.Column == "" {
		return ErrValidation("measure %q requires table and column", m.Name)
	}
	switch m.Aggregate {
	case AggregateSum, AggregateAverage, AggregateMin, AggregateMax,
		AggregateCount, AggregateCountDistinct:
	default:
		return ErrValidation("measure %q aggregate must be one of SUM, AVG, MIN, MAX, COUNT, COUNT_DISTINCT", m.Name)
	}
	return nil
}

// Dimension defines a named grouping/breakdown column, optionally part of a
// drill-down hierarchy (coarsest level first).
type Dimension struct {
	Name      string
	Table     string
	Column    string
	Hierarchy []string
}

// Validate checks that the dimension definition is well-formed.
func (d *Dimension) Validate() error {
	if d.Name == "" {
		return ErrValidation("dimension name is required")
	}
	if utf8.RuneCountInString(d.Name) > MaxSemanticNameLength {
		return ErrValidation("dimension name must be <= %d characters", MaxSemanticNameLength)
	}
	if d.Table == "" || d.Column == "" {
		return ErrValidation("dimension %q requires table and column", d.Name)
	}
	return nil
}

// SemanticModel is one logical model: the tables, join relationships,
// measures, and dimensions the compiler works against. Declaration order of
// Tables and Relationships is significant: it drives deterministic join-path
// resolution.
type SemanticModel struct {
	ID            string
	Name          string
	Tables        []Table
	Relationships []Relationship
	Measures      []Measure
	Dimensions    []Dimension
}

// Table returns the named table, or nil when absent.
func (m *SemanticModel) Table(name string) *Table {
	for i := range m.Tables {
		if m.Tables[i].Name == name {
			return &m.Tables[i]
		}
	}
	return nil
}

// Validate checks the whole model: every definition well-formed and every
// relationship, measure, and dimension referencing a declared table.
func (m *SemanticModel) Validate() error {
	if m.Name == "" {
		return ErrValidation("model name is required")
	}
	seen := map[string]bool{}
	for i := range m.Tables {
		if err := m.Tables[i].Validate(); err != nil {
			return err
		}
		if seen[m.Tables[i].Name] {
			return ErrValidation("model declares table %q twice", m.Tables[i].Name)
		}
		seen[m.Tables[i].Name] = true
	}
	for i := range m.Relationships {
		r := &m.Relationships[i]
		if err := r.Validate(); err != nil {
			return err
		}
		if !seen[r.FromTable] {
			return ErrInvalidReference("relationship references unknown table %q", r.FromTable)
		}
		if !seen[r.ToTable] {
			return ErrInvalidReference("relationship references unknown table %q", r.ToTable)
		}
	}
	for i := range m.Measures {
		if err := m.Measures[i].Validate(); err != nil {
			return err
		}
		if !seen[m.Measures[i].Table] {
			return ErrInvalidReference("measure %q references unknown table %q", m.Measures[i].Name, m.Measures[i].Table)
		}
	}
	for i := range m.Dimensions {
		if err := m.Dimensions[i].Validate(); err != nil {
			return err
		}
		if !seen[m.Dimensions[i].Table] {
			return ErrInvalidReference("dimension %q references unknown table %q", m.Dimensions[i].Name, m.Dimensions[i].Table)
		}
	}
	return nil
}
