// Package postgres provides a datagrid.Collection that pushes filtering,
// ordering and pagination down into a single PostgreSQL query. Records come
// back as map[string]any rows, which the core's default getter reads
// directly.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridable/datagrid/pkg/datagrid"
)

// DBTX is satisfied by a pgx connection, pool or transaction.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type ordering struct {
	field string
	desc  bool
}

// Collection is an immutable query description over one table or view.
// Builders accumulate conditions; Count and All compile and run SQL.
type Collection struct {
	db      DBTX
	table   string
	selects []string
	columns map[string]string
	conds   []datagrid.Condition
	orders  []ordering
	start   int
	end     int
}

// Option configures a Collection.
type Option func(*Collection)

// WithColumnMap maps wire field paths to SQL column expressions. Paths not
// in the map translate by replacing the relation separator with an
// underscore ("department__id" reads column "department_id").
func WithColumnMap(columns map[string]string) Option {
	return func(c *Collection) { c.columns = columns }
}

// WithSelect restricts the selected columns; the default is *.
func WithSelect(columns ...string) Option {
	return func(c *Collection) { c.selects = columns }
}

// New builds a collection over a table using a pgx connection or
// transaction.
func New(db DBTX, table string, opts ...Option) *Collection {
	c := &Collection{
		db:      db,
		table:   table,
		selects: []string{"*"},
		end:     -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithPool builds a collection backed by a connection pool.
func NewWithPool(pool *pgxpool.Pool, table string, opts ...Option) *Collection {
	return New(pool, table, opts...)
}

func (c *Collection) clone() *Collection {
	derived := *c
	derived.conds = append([]datagrid.Condition(nil), c.conds...)
	derived.orders = append([]ordering(nil), c.orders...)
	return &derived
}

func (c *Collection) Where(cond datagrid.Condition) datagrid.Collection {
	derived := c.clone()
	derived.conds = append(derived.conds, cond)
	return derived
}

func (c *Collection) OrderBy(field string, desc bool) datagrid.Collection {
	derived := c.clone()
	derived.orders = append(derived.orders, ordering{field: field, desc: desc})
	return derived
}

func (c *Collection) Slice(start, end int) datagrid.Collection {
	derived := c.clone()
	derived.start = start
	derived.end = end
	return derived
}

func (c *Collection) Count(ctx context.Context) (int, error) {
	query, args := c.buildCount()
	var count int
	if err := c.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, c.translateError("count", err)
	}
	return count, nil
}

func (c *Collection) All(ctx context.Context) ([]datagrid.Record, error) {
	query, args := c.buildSelect()
	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, c.translateError("select", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var records []datagrid.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, c.translateError("scan", err)
		}
		record := make(map[string]any, len(fields))
		for i, field := range fields {
			record[field.Name] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, c.translateError("select", err)
	}
	return records, nil
}

func (c *Collection) buildSelect() (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(c.selects...).From(c.table)
	c.applyConditions(sb)

	for _, ord := range c.orders {
		direction := " ASC"
		if ord.desc {
			direction = " DESC"
		}
		sb.OrderBy(c.columnFor(ord.field) + direction)
	}

	if c.end >= 0 {
		sb.Limit(c.end - c.start)
	}
	if c.start > 0 {
		sb.Offset(c.start)
	}

	return sb.Build()
}

func (c *Collection) buildCount() (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)").From(c.table)
	c.applyConditions(sb)
	return sb.Build()
}

func (c *Collection) applyConditions(sb *sqlbuilder.SelectBuilder) {
	for _, cond := range c.conds {
		col := c.columnFor(cond.Field)
		switch cond.Op {
		case datagrid.OpEq:
			sb.Where(sb.Equal(col, cond.Value))
		case datagrid.OpContains:
			sb.Where(sb.Like(col, "%"+fmt.Sprint(cond.Value)+"%"))
		case datagrid.OpGt:
			sb.Where(sb.GreaterThan(col, cond.Value))
		case datagrid.OpGte:
			sb.Where(sb.GreaterEqualThan(col, cond.Value))
		case datagrid.OpLt:
			sb.Where(sb.LessThan(col, cond.Value))
		case datagrid.OpLte:
			sb.Where(sb.LessEqualThan(col, cond.Value))
		}
	}
}

func (c *Collection) columnFor(field string) string {
	if col, ok := c.columns[field]; ok {
		return col
	}
	return strings.ReplaceAll(field, "__", "_")
}

func (c *Collection) translateError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("table %s does not exist: %w", c.table, err)
		case "42703": // undefined_column
			return fmt.Errorf("unknown column in %s query on %s: %w", operation, c.table, err)
		}
		return fmt.Errorf("database error in %s on %s: %s (code %s)", operation, c.table, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("database error in %s on %s: %w", operation, c.table, err)
}
