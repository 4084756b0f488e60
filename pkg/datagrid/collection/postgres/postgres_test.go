package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridable/datagrid/pkg/datagrid"
)

// SQL building is tested without a database; the query text and arguments
// are enough to pin the translation down.

func TestBuildSelect(t *testing.T) {
	t.Run("bare query selects everything", func(t *testing.T) {
		c := New(nil, "people")
		query, args := c.buildSelect()

		assert.Contains(t, query, "SELECT * FROM people")
		assert.Empty(t, args)
	})

	t.Run("conditions become parameterized where clauses", func(t *testing.T) {
		c := New(nil, "people").
			Where(datagrid.Condition{Field: "name", Op: datagrid.OpContains, Value: "bo"}).
			Where(datagrid.Condition{Field: "age", Op: datagrid.OpGte, Value: 30}).(*Collection)
		query, args := c.buildSelect()

		assert.Contains(t, query, "name LIKE")
		assert.Contains(t, query, "age >=")
		assert.Equal(t, []any{"%bo%", 30}, args)
	})

	t.Run("time values pass through as arguments", func(t *testing.T) {
		when := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
		c := New(nil, "people").
			Where(datagrid.Condition{Field: "seen", Op: datagrid.OpLt, Value: when}).(*Collection)
		query, args := c.buildSelect()

		assert.Contains(t, query, "seen <")
		require.Len(t, args, 1)
		assert.Equal(t, when, args[0])
	})

	t.Run("ordering and pagination", func(t *testing.T) {
		c := New(nil, "people").
			OrderBy("name", true).
			Slice(10, 30).(*Collection)
		query, _ := c.buildSelect()

		assert.Contains(t, query, "ORDER BY name DESC")
		assert.Contains(t, query, "LIMIT")
		assert.Contains(t, query, "OFFSET")
	})

	t.Run("no limit without a slice", func(t *testing.T) {
		c := New(nil, "people")
		query, _ := c.buildSelect()
		assert.NotContains(t, query, "LIMIT")
	})

	t.Run("restricted select list", func(t *testing.T) {
		c := New(nil, "people", WithSelect("id", "name"))
		query, _ := c.buildSelect()
		assert.Contains(t, query, "SELECT id, name FROM people")
	})
}

func TestBuildCount(t *testing.T) {
	c := New(nil, "people").
		Where(datagrid.Condition{Field: "active", Op: datagrid.OpEq, Value: true}).(*Collection)
	query, args := c.buildCount()

	assert.Contains(t, query, "SELECT COUNT(*) FROM people")
	assert.Contains(t, query, "active =")
	assert.Equal(t, []any{true}, args)
}

func TestColumnFor(t *testing.T) {
	t.Run("default separator translation", func(t *testing.T) {
		c := New(nil, "people")
		assert.Equal(t, "department_id", c.columnFor("department__id"))
		assert.Equal(t, "name", c.columnFor("name"))
	})

	t.Run("explicit map wins", func(t *testing.T) {
		c := New(nil, "people", WithColumnMap(map[string]string{
			"department__name": "d.name",
		}))
		assert.Equal(t, "d.name", c.columnFor("department__name"))
		assert.Equal(t, "department_id", c.columnFor("department__id"))
	})
}

func TestBuildersDoNotMutate(t *testing.T) {
	base := New(nil, "people")
	derived := base.Where(datagrid.Condition{Field: "name", Op: datagrid.OpEq, Value: "bob"}).(*Collection)

	baseQuery, baseArgs := base.buildSelect()
	derivedQuery, derivedArgs := derived.buildSelect()

	assert.NotContains(t, baseQuery, "WHERE")
	assert.Empty(t, baseArgs)
	assert.Contains(t, derivedQuery, "WHERE")
	assert.Len(t, derivedArgs, 1)
}
