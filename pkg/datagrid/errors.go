package datagrid

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrTableNotFound indicates no registered table claimed the request.
	ErrTableNotFound = errors.New("table not found")

	// ErrWidgetNotFound indicates a widget lookup by name failed.
	ErrWidgetNotFound = errors.New("widget not found")

	// ErrNoNestedStorage indicates a widget has no nested storage to dispatch to.
	ErrNoNestedStorage = errors.New("widget has no nested storage")

	// ErrUnknownFormat indicates an output format this table cannot produce.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrDuplicateColumn indicates two columns with the same name in one storage.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrDuplicateWidget indicates two widgets with the same name in one storage.
	ErrDuplicateWidget = errors.New("duplicate widget name")

	// ErrColumnNotSortable indicates a sort was requested on a column without a sort field.
	ErrColumnNotSortable = errors.New("column can not be used to sort")

	// ErrMissingConverter indicates a widget was constructed without a converter.
	ErrMissingConverter = errors.New("widget requires a converter")

	// ErrMissingFilter indicates a widget was constructed without a filter.
	ErrMissingFilter = errors.New("widget requires a filter")

	// ErrExportNotFound indicates an archived export key does not exist.
	ErrExportNotFound = errors.New("export not found")
)

// ConfigError represents a construction-time configuration problem. These are
// programming errors and fail loudly before any request is served.
type ConfigError struct {
	Component string
	Name      string
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration for %q: %v", e.Component, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FilterTypeError is returned by Filter.Clean when a value outside the
// filter's allowed type set is passed programmatically. It is never caused by
// wire input, which converters null out before filtering.
type FilterTypeError struct {
	Field string
	Value any
}

func (e *FilterTypeError) Error() string {
	return fmt.Sprintf("type %T not supported by filter on field %q", e.Value, e.Field)
}

// DecodeError wraps a converter failure that must be reported rather than
// recovered, such as an unparsable datetime.
type DecodeError struct {
	Name string
	Wire string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode parameter %q value %q: %v", e.Name, e.Wire, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
