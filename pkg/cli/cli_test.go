package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semql/internal/domain"
)

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{
		"orders.amount:gt:100",
		"customers.region:eq:EMEA",
		"orders.discount:is_null",
		"orders.active:eq:true",
		"orders.score:gte:1.5",
	})
	require.NoError(t, err)
	require.Len(t, filters, 5)

	assert.Equal(t, domain.Filter{Table: "orders", Column: "amount", Operator: "gt", Value: int64(100)}, filters[0])
	assert.Equal(t, "EMEA", filters[1].Value)
	assert.Nil(t, filters[2].Value)
	assert.Equal(t, true, filters[3].Value)
	assert.Equal(t, 1.5, filters[4].Value)
}

func TestParseFilters_Invalid(t *testing.T) {
	for _, expr := range []string{"orders.amount", "amount:gt:100", ".amount:gt:1"} {
		_, err := parseFilters([]string{expr})
		require.Error(t, err, expr)
	}
}

func TestParseOrderTerms(t *testing.T) {
	terms, err := parseOrderTerms([]string{"customers.name:desc", "orders.created_at:asc", "orders.id"})
	require.NoError(t, err)
	require.Len(t, terms, 3)

	assert.Equal(t, domain.OrderTerm{Table: "customers", Column: "name", Descending: true}, terms[0])
	assert.Equal(t, domain.OrderTerm{Table: "orders", Column: "created_at"}, terms[1])
	assert.Equal(t, domain.OrderTerm{Table: "orders", Column: "id"}, terms[2])

	_, err = parseOrderTerms([]string{"noseparator"})
	require.Error(t, err)
}

func TestValidateOutputFormat(t *testing.T) {
	require.NoError(t, validateOutputFormat("table"))
	require.NoError(t, validateOutputFormat("json"))
	require.NoError(t, validateOutputFormat(""))
	require.Error(t, validateOutputFormat("yaml"))
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{
		"compile": false, "estimate": false, "analyze": false,
		"validate": false, "history": false, "version": false,
	}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, name)
	}
}

func TestHistoryCommand_HasExpectedSubcommands(t *testing.T) {
	root := newRootCmd()
	history, _, err := root.Find([]string{"history"})
	require.NoError(t, err)

	want := map[string]bool{
		"slow": false, "stats": false, "summary": false,
		"purge": false, "sweep": false,
	}
	for _, c := range history.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, name)
	}
}

func TestHistoryPurge_UsesConfiguredRetentionByDefault(t *testing.T) {
	t.Setenv("HISTORY_DB_PATH", filepath.Join(t.TempDir(), "history.sqlite"))
	t.Setenv("HISTORY_RETENTION_DAYS", "7")

	root := newRootCmd()
	root.SetArgs([]string{"history", "purge"})
	require.NoError(t, root.Execute())
}
