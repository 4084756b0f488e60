package datagrid

import "time"

// OlderThanNowFilter is boolean-triggered: when the decoded value is true it
// keeps records whose field is at or before the current instant, otherwise it
// leaves the collection unchanged.
type OlderThanNowFilter struct {
	field string
	now   func() time.Time
}

// OlderThanNowOption configures an OlderThanNowFilter.
type OlderThanNowOption func(*OlderThanNowFilter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) OlderThanNowOption {
	return func(f *OlderThanNowFilter) { f.now = now }
}

func NewOlderThanNowFilter(field string, opts ...OlderThanNowOption) *OlderThanNowFilter {
	f := &OlderThanNowFilter{field: field, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *OlderThanNowFilter) Clean(value any) (any, error) {
	if _, ok := value.(bool); !ok {
		return nil, &FilterTypeError{Field: f.field, Value: value}
	}
	return value, nil
}

func (f *OlderThanNowFilter) Apply(qs Collection, value any) (Collection, error) {
	if value == nil {
		return qs, nil
	}
	safe, err := f.Clean(value)
	if err != nil {
		return nil, err
	}
	if safe == true {
		return qs.Where(Condition{Field: f.field, Op: OpLte, Value: f.now()}), nil
	}
	return qs, nil
}

// BiggerThanFilter is boolean-triggered: when the decoded value is true it
// keeps records whose field exceeds a threshold fixed at construction.
type BiggerThanFilter struct {
	field     string
	threshold any
}

func NewBiggerThanFilter(field string, threshold any) *BiggerThanFilter {
	return &BiggerThanFilter{field: field, threshold: threshold}
}

func (f *BiggerThanFilter) Clean(value any) (any, error) {
	if _, ok := value.(bool); !ok {
		return nil, &FilterTypeError{Field: f.field, Value: value}
	}
	return value, nil
}

func (f *BiggerThanFilter) Apply(qs Collection, value any) (Collection, error) {
	if value == nil {
		return qs, nil
	}
	safe, err := f.Clean(value)
	if err != nil {
		return nil, err
	}
	if safe == true {
		return qs.Where(Condition{Field: f.field, Op: OpGt, Value: f.threshold}), nil
	}
	return qs, nil
}

// WholeDayFilter matches every timestamp inside one calendar day. A datetime
// value is normalized to its date component, then the half-open range
// [day, day+1) is applied, so a single date input covers the whole day.
type WholeDayFilter struct {
	field string
}

func NewWholeDayFilter(field string) *WholeDayFilter {
	return &WholeDayFilter{field: field}
}

func (f *WholeDayFilter) Clean(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, &FilterTypeError{Field: f.field, Value: value}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
}

func (f *WholeDayFilter) Apply(qs Collection, value any) (Collection, error) {
	if value == nil {
		return qs, nil
	}
	safe, err := f.Clean(value)
	if err != nil {
		return nil, err
	}
	day := safe.(time.Time)
	next := day.AddDate(0, 0, 1)

	qs = qs.Where(Condition{Field: f.field, Op: OpGte, Value: day})
	qs = qs.Where(Condition{Field: f.field, Op: OpLt, Value: next})
	return qs, nil
}
