package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semql/internal/domain"
)

func baseModel() domain.SemanticModel {
	return domain.SemanticModel{
		Name: "sales",
		Tables: []domain.Table{
			{Name: "orders", Columns: []domain.Column{{Name: "id", Type: "INTEGER"}, {Name: "customer_id", Type: "INTEGER"}, {Name: "amount", Type: "DECIMAL"}}},
			{Name: "customers", Columns: []domain.Column{{Name: "id", Type: "INTEGER"}, {Name: "name", Type: "TEXT"}}},
		},
		Relationships: []domain.Relationship{
			{FromTable: "orders", FromColumn: "customer_id", ToTable: "customers", ToColumn: "id",
				Cardinality: domain.CardinalityOneToMany, JoinKind: domain.JoinKindInner},
		},
		Measures:   []domain.Measure{{Name: "total_amount", Table: "orders", Column: "amount", Aggregate: domain.AggregateSum}},
		Dimensions: []domain.Dimension{{Name: "customer_name", Table: "customers", Column: "name"}},
	}
}

func setupCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := New(baseModel())
	require.NoError(t, err)
	return cat
}

func TestNew_GeneratesModelID(t *testing.T) {
	cat := setupCatalog(t)
	assert.NotEmpty(t, cat.ModelID())
}

func TestNew_RejectsInvalidModel(t *testing.T) {
	model := baseModel()
	model.Relationships[0].ToTable = "missing"
	_, err := New(model)
	var refErr *domain.InvalidReferenceError
	require.ErrorAs(t, err, &refErr)
}

func TestNew_CopiesModel(t *testing.T) {
	model := baseModel()
	cat, err := New(model)
	require.NoError(t, err)

	model.Tables[0].Columns[0].Name = "mutated"
	got, err := cat.Table("orders")
	require.NoError(t, err)
	assert.Equal(t, "id", got.Columns[0].Name)
}

func TestAddTable_Conflict(t *testing.T) {
	cat := setupCatalog(t)

	err := cat.AddTable(domain.Table{Name: "orders"})
	var cErr *domain.ConflictError
	require.ErrorAs(t, err, &cErr)

	require.NoError(t, cat.AddTable(domain.Table{Name: "products", Columns: []domain.Column{{Name: "id", Type: "INTEGER"}}}))
	_, err = cat.Table("products")
	require.NoError(t, err)
}

func TestRemoveTable_CascadesToDependents(t *testing.T) {
	cat := setupCatalog(t)

	require.NoError(t, cat.RemoveTable("orders"))

	_, err := cat.Table("orders")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)

	// The relationship and measure referencing orders go with it.
	assert.Empty(t, cat.Relationships())
	_, err = cat.ResolveMeasure("total_amount")
	require.ErrorAs(t, err, &nfErr)

	// The dimension on customers survives.
	_, err = cat.ResolveDimension("customer_name")
	require.NoError(t, err)
}

func TestAddRelationship_RequiresKnownTables(t *testing.T) {
	cat := setupCatalog(t)

	err := cat.AddRelationship(domain.Relationship{
		FromTable: "orders", FromColumn: "id", ToTable: "missing", ToColumn: "id",
		Cardinality: domain.CardinalityOneToOne, JoinKind: domain.JoinKindInner,
	})
	var refErr *domain.InvalidReferenceError
	require.ErrorAs(t, err, &refErr)
}

func TestRemoveRelationship(t *testing.T) {
	cat := setupCatalog(t)

	require.NoError(t, cat.RemoveRelationship("orders", "customer_id", "customers", "id"))
	assert.Empty(t, cat.Relationships())

	err := cat.RemoveRelationship("orders", "customer_id", "customers", "id")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestAddMeasure_DuplicateNameRejected(t *testing.T) {
	cat := setupCatalog(t)

	err := cat.AddMeasure(domain.Measure{Name: "total_amount", Table: "orders", Column: "id", Aggregate: domain.AggregateCount})
	var cErr *domain.ConflictError
	require.ErrorAs(t, err, &cErr)
}

func TestAddDimension_UnknownTableRejected(t *testing.T) {
	cat := setupCatalog(t)

	err := cat.AddDimension(domain.Dimension{Name: "region", Table: "missing", Column: "region"})
	var refErr *domain.InvalidReferenceError
	require.ErrorAs(t, err, &refErr)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	cat := setupCatalog(t)

	snap := cat.Snapshot()
	snap.Tables[0].Columns[0].Name = "mutated"
	snap.Dimensions[0].Name = "mutated"

	got, err := cat.Table("orders")
	require.NoError(t, err)
	assert.Equal(t, "id", got.Columns[0].Name)
	_, err = cat.ResolveDimension("customer_name")
	require.NoError(t, err)
}
