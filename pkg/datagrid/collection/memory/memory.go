// Package memory provides a slice-backed datagrid.Collection. It is the
// reference implementation used by tests and demos; conditions are evaluated
// record by record through a Getter.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gridable/datagrid/pkg/datagrid"
)

type ordering struct {
	field string
	desc  bool
}

// Collection is an immutable in-memory query over a record slice. Where,
// OrderBy and Slice return derived collections sharing the same records.
type Collection struct {
	records []datagrid.Record
	get     datagrid.Getter
	conds   []datagrid.Condition
	orders  []ordering
	start   int
	end     int
}

// Option configures a Collection.
type Option func(*Collection)

// WithGetter replaces the default record accessor.
func WithGetter(get datagrid.Getter) Option {
	return func(c *Collection) { c.get = get }
}

// New builds a collection over the given records.
func New(records []datagrid.Record, opts ...Option) *Collection {
	c := &Collection{
		records: records,
		get:     datagrid.DefaultGetter,
		end:     -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
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
	records, err := c.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (c *Collection) All(_ context.Context) ([]datagrid.Record, error) {
	var matched []datagrid.Record
	for _, record := range c.records {
		if c.matches(record) {
			matched = append(matched, record)
		}
	}

	// Later OrderBy calls win; earlier ones break ties via stable sort.
	for i := len(c.orders) - 1; i >= 0; i-- {
		ord := c.orders[i]
		sort.SliceStable(matched, func(a, b int) bool {
			va := c.resolve(matched[a], ord.field)
			vb := c.resolve(matched[b], ord.field)
			if ord.desc {
				return lessValue(vb, va)
			}
			return lessValue(va, vb)
		})
	}

	start, end := c.start, c.end
	if start > len(matched) {
		start = len(matched)
	}
	if end < 0 || end > len(matched) {
		end = len(matched)
	}
	if start > end {
		start = end
	}
	return matched[start:end], nil
}

func (c *Collection) matches(record datagrid.Record) bool {
	for _, cond := range c.conds {
		if !evaluate(c.resolve(record, cond.Field), cond) {
			return false
		}
	}
	return true
}

// resolve walks a field path, traversing related records across the
// double-underscore separator.
func (c *Collection) resolve(record datagrid.Record, field string) any {
	value := record
	for _, part := range strings.Split(field, "__") {
		if value == nil {
			return nil
		}
		value = c.get(value, part)
	}
	return value
}

func evaluate(value any, cond datagrid.Condition) bool {
	if value == nil {
		return false
	}

	switch want := cond.Value.(type) {
	case string:
		have, ok := value.(string)
		if !ok {
			return false
		}
		switch cond.Op {
		case datagrid.OpEq:
			return have == want
		case datagrid.OpContains:
			return strings.Contains(have, want)
		}
		return orderedResult(strings.Compare(have, want), cond.Op)

	case bool:
		have, ok := value.(bool)
		return ok && cond.Op == datagrid.OpEq && have == want

	case time.Time:
		have, ok := value.(time.Time)
		if !ok {
			return false
		}
		switch cond.Op {
		case datagrid.OpEq:
			return have.Equal(want)
		case datagrid.OpGt:
			return have.After(want)
		case datagrid.OpGte:
			return !have.Before(want)
		case datagrid.OpLt:
			return have.Before(want)
		case datagrid.OpLte:
			return !have.After(want)
		}
		return false
	}

	haveN, haveOK := toFloat(value)
	wantN, wantOK := toFloat(cond.Value)
	if !haveOK || !wantOK {
		return false
	}
	switch {
	case haveN < wantN:
		return orderedResult(-1, cond.Op)
	case haveN > wantN:
		return orderedResult(1, cond.Op)
	}
	return orderedResult(0, cond.Op)
}

func orderedResult(cmp int, op datagrid.Op) bool {
	switch op {
	case datagrid.OpEq:
		return cmp == 0
	case datagrid.OpGt:
		return cmp > 0
	case datagrid.OpGte:
		return cmp >= 0
	case datagrid.OpLt:
		return cmp < 0
	case datagrid.OpLte:
		return cmp <= 0
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func lessValue(a, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return !av && bv
		}
	}
	if an, ok := toFloat(a); ok {
		if bn, ok := toFloat(b); ok {
			return an < bn
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
