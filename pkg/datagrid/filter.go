package datagrid

import "time"

// Filter validates a decoded value and, when the value is usable, narrows a
// collection with one predicate.
type Filter interface {
	// Clean validates a typed value. A value outside the filter's allowed
	// type set is a *FilterTypeError: that is a configuration bug, not wire
	// input, and fails the call.
	Clean(value any) (any, error)

	// Apply narrows the collection. A nil value, or a value Clean reduces to
	// nil, leaves the collection unchanged.
	Apply(qs Collection, value any) (Collection, error)
}

// NoFilter ignores its value and never narrows the collection.
type NoFilter struct{}

func NewNoFilter() NoFilter { return NoFilter{} }

func (NoFilter) Clean(value any) (any, error) { return value, nil }

func (NoFilter) Apply(qs Collection, value any) (Collection, error) {
	return qs, nil
}

// SimpleFilter applies a single field/op/value condition, optionally
// validating the value's type first.
type SimpleFilter struct {
	field string
	op    Op
	allow func(any) bool
}

// NewFilter builds an untyped filter. An empty op means equality.
func NewFilter(field string, op Op) *SimpleFilter {
	if op == "" {
		op = OpEq
	}
	return &SimpleFilter{field: field, op: op}
}

// NewStringFilter builds a filter accepting string values only.
func NewStringFilter(field string, op Op) *SimpleFilter {
	f := NewFilter(field, op)
	f.allow = func(v any) bool { _, ok := v.(string); return ok }
	return f
}

// NewIntegerFilter builds a filter accepting int values only.
func NewIntegerFilter(field string, op Op) *SimpleFilter {
	f := NewFilter(field, op)
	f.allow = func(v any) bool { _, ok := v.(int); return ok }
	return f
}

// NewBooleanFilter builds a filter accepting bool values only.
func NewBooleanFilter(field string, op Op) *SimpleFilter {
	f := NewFilter(field, op)
	f.allow = func(v any) bool { _, ok := v.(bool); return ok }
	return f
}

// NewDateFilter builds a filter accepting time.Time values.
func NewDateFilter(field string, op Op) *SimpleFilter {
	return NewDateTimeFilter(field, op)
}

// NewDateTimeFilter builds a filter accepting time.Time values.
func NewDateTimeFilter(field string, op Op) *SimpleFilter {
	f := NewFilter(field, op)
	f.allow = func(v any) bool { _, ok := v.(time.Time); return ok }
	return f
}

// Field returns the filtered field path.
func (f *SimpleFilter) Field() string { return f.field }

// Operation returns the comparison op the filter applies.
func (f *SimpleFilter) Operation() Op { return f.op }

func (f *SimpleFilter) Clean(value any) (any, error) {
	if f.allow != nil && !f.allow(value) {
		return nil, &FilterTypeError{Field: f.field, Value: value}
	}
	return value, nil
}

func (f *SimpleFilter) Apply(qs Collection, value any) (Collection, error) {
	if value == nil {
		return qs, nil
	}
	safe, err := f.Clean(value)
	if err != nil {
		return nil, err
	}
	if safe == nil {
		return qs, nil
	}
	return qs.Where(Condition{Field: f.field, Op: f.op, Value: safe}), nil
}
