package modelfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semql/internal/domain"
)

const validYAML = `
name: sales
tables:
  - name: orders
    columns:
      - name: id
        type: INTEGER
      - name: customer_id
        type: INTEGER
      - name: amount
        type: DECIMAL
  - name: customers
    schema: analytics
    columns:
      - name: id
        type: INTEGER
      - name: name
        type: TEXT
relationships:
  - from_table: orders
    from_column: customer_id
    to_table: customers
    to_column: id
measures:
  - name: total_amount
    table: orders
    column: amount
    aggregate: sum
dimensions:
  - name: customer_name
    table: customers
    column: name
    hierarchy: [region, customer_name]
`

func TestParse_ValidModel(t *testing.T) {
	model, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "sales", model.Name)
	require.Len(t, model.Tables, 2)
	assert.Equal(t, "analytics", model.Tables[1].Schema)
	require.Len(t, model.Relationships, 1)
	require.Len(t, model.Measures, 1)
	require.Len(t, model.Dimensions, 1)
	assert.Equal(t, []string{"region", "customer_name"}, model.Dimensions[0].Hierarchy)
}

func TestParse_DefaultsAndCaseFolding(t *testing.T) {
	model, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	// join_kind and cardinality were omitted; aggregate was lowercase.
	assert.Equal(t, domain.JoinKindInner, model.Relationships[0].JoinKind)
	assert.Equal(t, domain.CardinalityOneToMany, model.Relationships[0].Cardinality)
	assert.Equal(t, domain.AggregateSum, model.Measures[0].Aggregate)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("tables: [unclosed"))
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestParse_InvalidReferenceRejected(t *testing.T) {
	_, err := Parse([]byte(`
name: broken
tables:
  - name: orders
    columns:
      - name: id
        type: INTEGER
measures:
  - name: total
    table: missing
    column: amount
    aggregate: SUM
`))
	var refErr *domain.InvalidReferenceError
	require.ErrorAs(t, err, &refErr)
}

func TestParse_UnknownAggregateRejected(t *testing.T) {
	_, err := Parse([]byte(`
name: broken
tables:
  - name: orders
    columns:
      - name: amount
        type: DECIMAL
measures:
  - name: total
    table: orders
    column: amount
    aggregate: median
`))
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	model, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sales", model.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
