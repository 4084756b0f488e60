package datagrid

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Converter transforms one request parameter between its wire form and a
// typed value, both directions.
//
// Decode never fails on malformed wire input; it reports (nil, nil) so the
// corresponding filter is simply not applied. The datetime converter is the
// documented exception: an unparsable instant is a *DecodeError. Encode may
// assume a valid typed value.
type Converter interface {
	// Name is the wire parameter key.
	Name() string

	// ExistsIn reports whether the wire key is present. Presence, not
	// truthiness: an empty value still exists.
	ExistsIn(params url.Values) bool

	// Decode reads and converts the parameter. Absent keys yield (nil, nil).
	Decode(params url.Values) (any, error)

	// Encode renders a typed value to its wire form. ok is false when the
	// value has no wire representation (a nil value, for most types).
	Encode(value any) (wire string, ok bool)
}

type param struct {
	name string
}

func (p param) Name() string { return p.name }

func (p param) ExistsIn(params url.Values) bool { return params.Has(p.name) }

// StringConverter passes string values through unchanged.
type StringConverter struct {
	param
}

func NewStringConverter(name string) *StringConverter {
	return &StringConverter{param{name}}
}

func (c *StringConverter) Decode(params url.Values) (any, error) {
	if !c.ExistsIn(params) {
		return nil, nil
	}
	return params.Get(c.name), nil
}

func (c *StringConverter) Encode(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	return fmt.Sprint(value), true
}

// ComboConverter decodes autocomplete input: a trailing "*" wildcard marker
// is stripped, and an empty string means no selection rather than an empty
// selection.
type ComboConverter struct {
	StringConverter
}

func NewComboConverter(name string) *ComboConverter {
	return &ComboConverter{StringConverter{param{name}}}
}

func (c *ComboConverter) Decode(params url.Values) (any, error) {
	if !c.ExistsIn(params) {
		return nil, nil
	}
	value := params.Get(c.name)
	if value == "" {
		return nil, nil
	}
	return strings.TrimSuffix(value, "*"), nil
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DateTimeConverter converts ISO-8601 instants. Layouts without an explicit
// offset are interpreted in the converter's location.
type DateTimeConverter struct {
	param
	loc *time.Location
}

func NewDateTimeConverter(name string, loc *time.Location) *DateTimeConverter {
	if loc == nil {
		loc = time.UTC
	}
	return &DateTimeConverter{param: param{name}, loc: loc}
}

func (c *DateTimeConverter) Decode(params url.Values) (any, error) {
	if !c.ExistsIn(params) {
		return nil, nil
	}
	wire := params.Get(c.name)
	var err error
	for _, layout := range dateTimeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, wire, c.loc); err == nil {
			return t, nil
		}
	}
	return nil, &DecodeError{Name: c.name, Wire: wire, Err: err}
}

func (c *DateTimeConverter) Encode(value any) (string, bool) {
	t, ok := value.(time.Time)
	if !ok {
		return "", false
	}
	return t.Format(time.RFC3339), true
}

// DateConverter converts strict YYYY-MM-DD literals. Wrong arity and
// non-numeric parts decode to nil; numerically valid parts that do not form
// a real calendar date are a hard failure.
type DateConverter struct {
	param
}

func NewDateConverter(name string) *DateConverter {
	return &DateConverter{param{name}}
}

func (c *DateConverter) Decode(params url.Values) (any, error) {
	if !c.ExistsIn(params) {
		return nil, nil
	}
	wire := params.Get(c.name)
	parts := strings.SplitN(wire, "-", 3)
	if len(parts) != 3 {
		return nil, nil
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, nil
		}
		nums[i] = n
	}
	y, m, d := nums[0], nums[1], nums[2]
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return nil, &DecodeError{
			Name: c.name,
			Wire: wire,
			Err:  fmt.Errorf("no such calendar date"),
		}
	}
	return t, nil
}

func (c *DateConverter) Encode(value any) (string, bool) {
	t, ok := value.(time.Time)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// BooleanConverter decodes the wire literal "true" to true and every other
// present value to false. This is deliberately lossy: callers distinguish
// "absent" from "present and false" through ExistsIn, not through the
// decoded value. Encode is three-valued so a nil initial value round-trips
// to the client as "null".
type BooleanConverter struct {
	param
}

func NewBooleanConverter(name string) *BooleanConverter {
	return &BooleanConverter{param{name}}
}

func (c *BooleanConverter) Decode(params url.Values) (any, error) {
	if !c.ExistsIn(params) {
		return nil, nil
	}
	return params.Get(c.name) == "true", nil
}

func (c *BooleanConverter) Encode(value any) (string, bool) {
	if value == nil {
		return "null", true
	}
	b, ok := value.(bool)
	if !ok {
		return "", false
	}
	if b {
		return "true", true
	}
	return "false", true
}

// IntegerConverter converts decimal integers with optional inclusive bounds.
// Out-of-range input decodes to nil exactly like unparsable input; no
// clamping is performed.
type IntegerConverter struct {
	param
	min *int
	max *int
}

// IntegerOption configures an IntegerConverter.
type IntegerOption func(*IntegerConverter)

// WithMin sets the inclusive lower bound.
func WithMin(min int) IntegerOption {
	return func(c *IntegerConverter) { c.min = &min }
}

// WithMax sets the inclusive upper bound.
func WithMax(max int) IntegerOption {
	return func(c *IntegerConverter) { c.max = &max }
}

func NewIntegerConverter(name string, opts ...IntegerOption) *IntegerConverter {
	c := &IntegerConverter{param: param{name}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *IntegerConverter) Decode(params url.Values) (any, error) {
	if !c.ExistsIn(params) {
		return nil, nil
	}
	i, err := strconv.Atoi(params.Get(c.name))
	if err != nil {
		return nil, nil
	}
	if c.min != nil && i < *c.min {
		return nil, nil
	}
	if c.max != nil && i > *c.max {
		return nil, nil
	}
	return i, nil
}

func (c *IntegerConverter) Encode(value any) (string, bool) {
	i, ok := value.(int)
	if !ok {
		return "", false
	}
	return strconv.Itoa(i), true
}
