package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"semql/internal/domain"
)

func TestExtractSignals_FullQuery(t *testing.T) {
	sig := ExtractSignals(
		"SELECT * FROM orders JOIN customers ON orders.customer_id = customers.id " +
			"WHERE orders.amount > 100 GROUP BY customers.region ORDER BY customers.region LIMIT 10")

	assert.Equal(t, []string{"orders", "customers"}, sig.Tables)
	assert.Equal(t, 1, sig.JoinCount)
	assert.True(t, sig.HasFrom)
	assert.True(t, sig.HasWhere)
	assert.True(t, sig.HasGroupBy)
	assert.True(t, sig.HasAggregate)
	assert.True(t, sig.HasOrderBy)
	assert.True(t, sig.HasLimit)
	assert.True(t, sig.SelectStar)
	assert.Equal(t, []TableColumn{{Table: "orders", Column: "amount"}}, sig.WhereColumns)
}

func TestExtractSignals_QuotedAndSchemaQualifiedTables(t *testing.T) {
	sig := ExtractSignals(`SELECT id FROM "analytics"."orders" JOIN ` + "`customers`" + ` ON 1 = 1`)

	assert.Equal(t, []string{"orders", "customers"}, sig.Tables)
	assert.False(t, sig.SelectStar)
}

func TestExtractSignals_CommaFromList(t *testing.T) {
	sig := ExtractSignals("SELECT 1 FROM orders, customers, products WHERE orders.id = customers.id")

	assert.Equal(t, []string{"orders", "customers", "products"}, sig.Tables)
	assert.Equal(t, 0, sig.JoinCount)
}

func TestExtractSignals_Subqueries(t *testing.T) {
	sig := ExtractSignals(
		"SELECT id FROM orders WHERE customer_id IN (SELECT id FROM customers) " +
			"AND region IN (SELECT region FROM territories)")

	assert.Equal(t, 2, sig.SubqueryCount)
}

func TestExtractSignals_UnqualifiedWhereColumnUsesFirstTable(t *testing.T) {
	sig := ExtractSignals("SELECT id FROM orders WHERE amount > 100 AND status = 'open'")

	assert.Equal(t, []TableColumn{
		{Table: "orders", Column: "amount"},
		{Table: "orders", Column: "status"},
	}, sig.WhereColumns)
}

func TestExtractSignals_CommentsAndLiteralsIgnored(t *testing.T) {
	sig := ExtractSignals(
		"SELECT id -- FROM not_a_table\nFROM orders WHERE note = 'JOIN LIMIT GROUP'")

	assert.Equal(t, []string{"orders"}, sig.Tables)
	assert.Equal(t, 0, sig.JoinCount)
	assert.False(t, sig.HasLimit)
	assert.False(t, sig.HasGroupBy)
}

func TestExtractSignals_AggregateWithoutGroupBy(t *testing.T) {
	sig := ExtractSignals("SELECT COUNT(id) FROM orders")

	assert.True(t, sig.HasAggregate)
	assert.False(t, sig.HasGroupBy)
}

func TestExtractSignals_GarbageYieldsEmptySignals(t *testing.T) {
	sig := ExtractSignals("complete nonsense; 123 !@#")

	assert.False(t, sig.HasFrom)
	assert.Empty(t, sig.Tables)
}

func TestLogicalSignals_ExactFromCompiledQuery(t *testing.T) {
	limit := 10
	path := domain.JoinPath{
		Root:  "customers",
		Steps: []domain.JoinStep{{Table: "orders"}},
	}
	q := domain.LogicalQuery{
		Filters: []domain.Filter{{Table: "orders", Column: "amount", Operator: domain.OpGreaterThan, Value: 1}},
		OrderBy: []domain.OrderTerm{{Table: "customers", Column: "name"}},
		Limit:   &limit,
	}

	sig := LogicalSignals(path, q, 1, 1)

	assert.Equal(t, []string{"customers", "orders"}, sig.Tables)
	assert.Equal(t, 1, sig.JoinCount)
	assert.True(t, sig.HasFrom)
	assert.True(t, sig.HasWhere)
	assert.True(t, sig.HasAggregate)
	assert.True(t, sig.HasGroupBy)
	assert.True(t, sig.HasOrderBy)
	assert.True(t, sig.HasLimit)
	assert.False(t, sig.SelectStar)
	assert.Equal(t, []TableColumn{{Table: "orders", Column: "amount"}}, sig.WhereColumns)
}
