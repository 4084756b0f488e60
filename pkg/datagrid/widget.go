package datagrid

import (
	"fmt"
	"net/url"
	"time"
)

// ConstraintKind marks which bound of a paired range a widget provides.
type ConstraintKind string

const (
	Minimum ConstraintKind = "min"
	Maximum ConstraintKind = "max"
)

// Constraints links a range widget to its partner so the client can keep the
// pair consistent (a start date never after its end date).
type Constraints struct {
	Kind ConstraintKind
	Name string
}

// Description is one human-readable line in an export preamble: the label of
// an active filter and its decoded value.
type Description struct {
	Label string
	Value any
}

// Widget is one user-adjustable query criterion: a named converter/filter
// pair, optionally backed by a nested Storage serving a dependent lookup
// grid. Widgets hold no per-request state and are safe to share across
// concurrent requests.
type Widget struct {
	name        string
	label       string
	placeholder string
	converter   Converter
	filter      Filter
	initial     any
	constraints *Constraints
	nested      *Storage
	describable bool
}

// WidgetOption configures a Widget.
type WidgetOption func(*Widget)

// WithConverter sets the widget's wire converter.
func WithConverter(c Converter) WidgetOption {
	return func(w *Widget) { w.converter = c }
}

// WithFilter sets the widget's collection filter.
func WithFilter(f Filter) WidgetOption {
	return func(w *Widget) { w.filter = f }
}

// WithWidgetLabel overrides the humanized default label.
func WithWidgetLabel(label string) WidgetOption {
	return func(w *Widget) { w.label = label }
}

// WithPlaceholder sets the input placeholder shown by the client.
func WithPlaceholder(placeholder string) WidgetOption {
	return func(w *Widget) { w.placeholder = placeholder }
}

// WithInitialValue sets the value the widget starts with.
func WithInitialValue(value any) WidgetOption {
	return func(w *Widget) { w.initial = value }
}

// WithConstraints declares the widget's half of a paired range.
func WithConstraints(c *Constraints) WidgetOption {
	return func(w *Widget) { w.constraints = c }
}

// WithNestedStorage attaches a storage over a separate lookup collection,
// served through the widget,<name> dispatch path.
func WithNestedStorage(s *Storage) WidgetOption {
	return func(w *Widget) { w.nested = s }
}

func withoutExportDescription() WidgetOption {
	return func(w *Widget) { w.describable = false }
}

// NewWidget builds a widget. Exactly one converter and one filter must be
// configured; construction fails otherwise.
func NewWidget(name string, opts ...WidgetOption) (*Widget, error) {
	w := &Widget{name: name, describable: true}
	for _, opt := range opts {
		opt(w)
	}
	if w.converter == nil {
		return nil, &ConfigError{Component: "widget", Name: name, Err: ErrMissingConverter}
	}
	if w.filter == nil {
		return nil, &ConfigError{Component: "widget", Name: name, Err: ErrMissingFilter}
	}
	if w.label == "" {
		w.label = humanizeName(name)
	}
	return w, nil
}

// NewStringWidget builds a substring-match widget over a string field.
func NewStringWidget(name string, opts ...WidgetOption) (*Widget, error) {
	return NewWidget(name, prepend(opts,
		WithConverter(NewStringConverter(name)),
		WithFilter(NewStringFilter(name, OpContains)),
	)...)
}

// NewDateWidget builds an exact-match widget over a date field.
func NewDateWidget(name string, opts ...WidgetOption) (*Widget, error) {
	return NewWidget(name, prepend(opts,
		WithConverter(NewDateConverter(name)),
		WithFilter(NewDateFilter(name, OpEq)),
	)...)
}

// NewDateTimeWidget builds an exact-match widget over a datetime field,
// decoding instants in the given location.
func NewDateTimeWidget(name string, loc *time.Location, opts ...WidgetOption) (*Widget, error) {
	return NewWidget(name, prepend(opts,
		WithConverter(NewDateTimeConverter(name, loc)),
		WithFilter(NewDateTimeFilter(name, OpEq)),
	)...)
}

// NewBooleanWidget builds a checkbox widget over a boolean field.
func NewBooleanWidget(name string, opts ...WidgetOption) (*Widget, error) {
	return NewWidget(name, prepend(opts,
		WithConverter(NewBooleanConverter(name)),
		WithFilter(NewBooleanFilter(name, OpEq)),
	)...)
}

// NewWholeDayWidget builds a widget matching every timestamp within the
// selected calendar day.
func NewWholeDayWidget(name string, opts ...WidgetOption) (*Widget, error) {
	return NewWidget(name, prepend(opts,
		WithConverter(NewDateConverter(name)),
		WithFilter(NewWholeDayFilter(name)),
	)...)
}

// Paired range widgets. The widget is named field_gte or field_lte, filters
// the bare field with the matching operation, and declares the partner
// widget in its constraints.

func NewDateGreaterOrEqual(field string, opts ...WidgetOption) (*Widget, error) {
	conv := func(name string) Converter { return NewDateConverter(name) }
	return newRangeWidget(field, OpGte, Minimum, OpLte, conv, opts)
}

func NewDateLessOrEqual(field string, opts ...WidgetOption) (*Widget, error) {
	conv := func(name string) Converter { return NewDateConverter(name) }
	return newRangeWidget(field, OpLte, Maximum, OpGte, conv, opts)
}

func NewDateTimeGreaterOrEqual(field string, loc *time.Location, opts ...WidgetOption) (*Widget, error) {
	conv := func(name string) Converter { return NewDateTimeConverter(name, loc) }
	return newRangeWidget(field, OpGte, Minimum, OpLte, conv, opts)
}

func NewDateTimeLessOrEqual(field string, loc *time.Location, opts ...WidgetOption) (*Widget, error) {
	conv := func(name string) Converter { return NewDateTimeConverter(name, loc) }
	return newRangeWidget(field, OpLte, Maximum, OpGte, conv, opts)
}

func newRangeWidget(field string, op Op, kind ConstraintKind, partnerOp Op, conv func(string) Converter, opts []WidgetOption) (*Widget, error) {
	name := field + "_" + string(op)
	return NewWidget(name, prepend(opts,
		WithConverter(conv(name)),
		WithFilter(NewDateTimeFilter(field, op)),
		WithConstraints(&Constraints{Kind: kind, Name: field + "_" + string(partnerOp)}),
	)...)
}

// NewForeignKeyComboBox builds an autocomplete widget for a foreign-key
// field. The widget filters the outer collection by the related record's
// integer id, while its nested storage serves candidate labels from a
// separate lookup collection, filtered by substring match on lookupField.
// The two collections are independent; only the UI couples them.
func NewForeignKeyComboBox(name string, lookup Collection, lookupField, format string, opts ...WidgetOption) (*Widget, error) {
	if format == "" {
		format = "${" + lookupField + "}"
	}

	labelWidget, err := NewWidget("label",
		WithConverter(NewComboConverter("label")),
		WithFilter(NewStringFilter(lookupField, OpContains)),
	)
	if err != nil {
		return nil, err
	}

	nested, err := NewStorage(lookup,
		[]*Column{
			NewColumn("label", NewFormatStringSerializer(format)),
		},
		WithWidgets(labelWidget),
	)
	if err != nil {
		return nil, err
	}

	return NewWidget(name, prepend(opts,
		WithConverter(NewIntegerConverter(name, WithMin(0))),
		WithFilter(NewIntegerFilter(name+"__id", OpEq)),
		WithNestedStorage(nested),
	)...)
}

// periodicRefreshInterval is how often the client grid re-fetches rows when
// the refresh checkbox is on.
const periodicRefreshInterval = 5 * time.Second

// NewPeriodicRefreshWidget builds the refresh checkbox. It has no filtering
// semantics and never contributes an export description row.
func NewPeriodicRefreshWidget(name string, opts ...WidgetOption) (*Widget, error) {
	return NewWidget(name, prepend(opts,
		WithConverter(NewBooleanConverter(name)),
		WithFilter(NewNoFilter()),
		WithPlaceholder(fmt.Sprintf("Refresh every %d sec", int(periodicRefreshInterval.Seconds()))),
		withoutExportDescription(),
	)...)
}

// NewPeriodicOlderThanNowRefreshWidget is the refresh checkbox variant that
// additionally hides records with a field value in the future.
func NewPeriodicOlderThanNowRefreshWidget(name string, opts ...WidgetOption) (*Widget, error) {
	return NewWidget(name, prepend(opts,
		WithConverter(NewBooleanConverter(name)),
		WithFilter(NewOlderThanNowFilter(name)),
		WithPlaceholder(fmt.Sprintf("Refresh every %d sec", int(periodicRefreshInterval.Seconds()))),
		withoutExportDescription(),
	)...)
}

// prepend keeps defaults overridable: defaults run first, caller options
// after.
func prepend(opts []WidgetOption, defaults ...WidgetOption) []WidgetOption {
	return append(defaults, opts...)
}

func (w *Widget) Name() string { return w.name }

func (w *Widget) Label() string { return w.label }

func (w *Widget) Placeholder() string { return w.placeholder }

func (w *Widget) InitialValue() any { return w.initial }

func (w *Widget) Constraints() *Constraints { return w.constraints }

// Nested returns the widget's nested storage, or nil.
func (w *Widget) Nested() *Storage { return w.nested }

func (w *Widget) Converter() Converter { return w.converter }

func (w *Widget) Filter() Filter { return w.filter }

// ExistsIn reports whether the widget's parameter is present in the request.
func (w *Widget) ExistsIn(params url.Values) bool {
	return w.converter.ExistsIn(params)
}

// ExportDescription returns the widget's preamble row for an export, or nil
// when the widget is absent from the request or never describes itself.
func (w *Widget) ExportDescription(params url.Values) (*Description, error) {
	if !w.describable || !w.ExistsIn(params) {
		return nil, nil
	}
	value, err := w.converter.Decode(params)
	if err != nil {
		return nil, err
	}
	return &Description{Label: w.label, Value: value}, nil
}

// Apply narrows the collection with the widget's criterion. An absent
// parameter leaves the collection unchanged.
func (w *Widget) Apply(qs Collection, params url.Values) (Collection, error) {
	if !w.ExistsIn(params) {
		return qs, nil
	}
	value, err := w.converter.Decode(params)
	if err != nil {
		return nil, err
	}
	return w.filter.Apply(qs, value)
}
