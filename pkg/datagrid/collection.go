package datagrid

import "context"

// Op is a comparison operation applied by a filter condition.
type Op string

// Condition operations (typed).
const (
	OpEq       Op = "eq"
	OpContains Op = "contains"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
)

// Condition is one field/operation/value predicate. Conditions applied to the
// same collection compose with AND semantics.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Collection is the query capability the grid core operates on. Where,
// OrderBy and Slice are pure builders returning derived collections; only
// Count and All touch the underlying data, so implementations backed by a
// database can push the whole pipeline down into a single query.
//
// Field paths may traverse relations with a double-underscore separator
// (e.g. "department__id"); how a path resolves is up to the implementation.
type Collection interface {
	// Where returns a collection narrowed by one condition.
	Where(cond Condition) Collection

	// OrderBy returns a collection ordered by a field, descending when desc
	// is true.
	OrderBy(field string, desc bool) Collection

	// Slice returns the half-open window [start, end) of the collection.
	// A negative end means no upper bound.
	Slice(start, end int) Collection

	// Count reports the number of records the collection would yield.
	Count(ctx context.Context) (int, error)

	// All materializes the collection. Callers other than the designated
	// export and pagination paths must not use it.
	All(ctx context.Context) ([]Record, error)
}
