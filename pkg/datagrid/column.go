package datagrid

import "strings"

// Column describes how one output field is labeled, sorted and serialized.
type Column struct {
	name       string
	label      string
	width      int
	sortable   bool
	sortField  string
	serializer Serializer
}

// ColumnOption configures a Column.
type ColumnOption func(*Column)

// WithLabel overrides the humanized default label.
func WithLabel(label string) ColumnOption {
	return func(c *Column) { c.label = label }
}

// WithWidth sets a display width hint for the client grid.
func WithWidth(width int) ColumnOption {
	return func(c *Column) { c.width = width }
}

// WithSortField sets the collection field used for sorting when it differs
// from the column name.
func WithSortField(field string) ColumnOption {
	return func(c *Column) {
		c.sortable = true
		c.sortField = field
	}
}

// Sortable switches sorting on or off for the column.
func Sortable(sortable bool) ColumnOption {
	return func(c *Column) { c.sortable = sortable }
}

// NewColumn builds a column around an explicit serializer. The label
// defaults to a humanized form of the name; the sort field defaults to the
// name when the column is sortable.
func NewColumn(name string, serializer Serializer, opts ...ColumnOption) *Column {
	c := &Column{name: name, serializer: serializer}
	for _, opt := range opts {
		opt(c)
	}
	if c.label == "" {
		c.label = humanizeName(name)
	}
	if c.sortable && c.sortField == "" {
		c.sortField = name
	}
	return c
}

func newTypedColumn(name string, serializer Serializer, opts []ColumnOption) *Column {
	return NewColumn(name, serializer, append([]ColumnOption{Sortable(true)}, opts...)...)
}

// NewStringColumn builds a sortable column with string rendering.
func NewStringColumn(name string, opts ...ColumnOption) *Column {
	return newTypedColumn(name, NewStringSerializer(name), opts)
}

// NewDateColumn builds a sortable column with date rendering.
func NewDateColumn(name string, opts ...ColumnOption) *Column {
	return newTypedColumn(name, NewDateSerializer(name), opts)
}

// NewDateTimeColumn builds a sortable column with datetime rendering.
func NewDateTimeColumn(name string, opts ...ColumnOption) *Column {
	return newTypedColumn(name, NewDateTimeSerializer(name), opts)
}

// NewBooleanColumn builds a sortable column with yes/- rendering.
func NewBooleanColumn(name string, opts ...ColumnOption) *Column {
	return newTypedColumn(name, NewBooleanSerializer(name), opts)
}

// NewDurationColumn builds a sortable column with elapsed-seconds rendering.
func NewDurationColumn(name string, opts ...ColumnOption) *Column {
	return newTypedColumn(name, NewDurationSerializer(name), opts)
}

// NewHrefColumn builds a non-sortable link column.
func NewHrefColumn(name string, serializer Serializer, opts ...ColumnOption) *Column {
	return NewColumn(name, serializer, opts...)
}

func (c *Column) Name() string { return c.name }

func (c *Column) Label() string { return c.label }

func (c *Column) Width() int { return c.width }

func (c *Column) Sortable() bool { return c.sortable }

// SortField returns the collection field backing sort requests, or "" for a
// non-sortable column.
func (c *Column) SortField() string {
	if !c.sortable {
		return ""
	}
	return c.sortField
}

func (c *Column) Serializer() Serializer { return c.serializer }

// Sort orders the collection by this column.
func (c *Column) Sort(qs Collection, desc bool) (Collection, error) {
	if !c.sortable || c.sortField == "" {
		return nil, ErrColumnNotSortable
	}
	return qs.OrderBy(c.sortField, desc), nil
}

// humanizeName turns a field name into a default label: underscores become
// spaces and the first letter is capitalized.
func humanizeName(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
