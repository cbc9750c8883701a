package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validModel() SemanticModel {
	return SemanticModel{
		Name: "sales",
		Tables: []Table{
			{Name: "orders", Columns: []Column{{Name: "id", Type: "INTEGER"}, {Name: "customer_id", Type: "INTEGER"}}},
			{Name: "customers", Columns: []Column{{Name: "id", Type: "INTEGER"}, {Name: "name", Type: "TEXT"}}},
		},
		Relationships: []Relationship{
			{FromTable: "orders", FromColumn: "customer_id", ToTable: "customers", ToColumn: "id",
				Cardinality: CardinalityOneToMany, JoinKind: JoinKindInner},
		},
		Measures:   []Measure{{Name: "order_count", Table: "orders", Column: "id", Aggregate: AggregateCount}},
		Dimensions: []Dimension{{Name: "customer_name", Table: "customers", Column: "name"}},
	}
}

func TestSemanticModel_Validate(t *testing.T) {
	model := validModel()
	require.NoError(t, model.Validate())
}

func TestSemanticModel_ValidateRejectsUnknownReferences(t *testing.T) {
	model := validModel()
	model.Measures = append(model.Measures, Measure{Name: "x", Table: "missing", Column: "id", Aggregate: AggregateSum})
	var refErr *InvalidReferenceError
	require.ErrorAs(t, model.Validate(), &refErr)

	model = validModel()
	model.Relationships[0].ToTable = "missing"
	require.ErrorAs(t, model.Validate(), &refErr)

	model = validModel()
	model.Dimensions[0].Table = "missing"
	require.ErrorAs(t, model.Validate(), &refErr)
}

func TestSemanticModel_ValidateRejectsDuplicateTables(t *testing.T) {
	model := validModel()
	model.Tables = append(model.Tables, Table{Name: "orders"})
	var vErr *ValidationError
	require.ErrorAs(t, model.Validate(), &vErr)
}

func TestRelationship_ConnectsAndOther(t *testing.T) {
	r := Relationship{FromTable: "orders", ToTable: "customers"}

	assert.True(t, r.Connects("orders", "customers"))
	assert.True(t, r.Connects("customers", "orders"))
	assert.False(t, r.Connects("orders", "products"))

	assert.Equal(t, "customers", r.Other("orders"))
	assert.Equal(t, "orders", r.Other("customers"))
	assert.Equal(t, "", r.Other("products"))
}

func TestMeasure_ValidateAggregates(t *testing.T) {
	m := Measure{Name: "total", Table: "orders", Column: "amount"}
	for _, agg := range []string{AggregateSum, AggregateAverage, AggregateMin, AggregateMax, AggregateCount, AggregateCountDistinct} {
		m.Aggregate = agg
		assert.NoError(t, m.Validate(), agg)
	}
	m.Aggregate = "MEDIAN"
	var vErr *ValidationError
	require.ErrorAs(t, m.Validate(), &vErr)
}

func TestLogicalQuery_ValidateRequiresProjection(t *testing.T) {
	q := LogicalQuery{}
	var epErr *EmptyProjectionError
	require.ErrorAs(t, q.Validate(), &epErr)

	q.Measures = []string{"order_count"}
	require.NoError(t, q.Validate())
}
