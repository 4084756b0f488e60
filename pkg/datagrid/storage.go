package datagrid

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Sort is a resolved sort choice: a column and a direction.
type Sort struct {
	Column *Column
	Desc   bool
}

// Storage binds a collection to its columns and widgets and orchestrates the
// filter, sort and serialize pipeline. All configuration is immutable after
// construction; per-request data flows through parameters and return values
// only, so one Storage serves concurrent requests without locking.
type Storage struct {
	qs          Collection
	columns     []*Column
	widgets     []*Widget
	title       string
	identifier  string
	get         Getter
	defaultSort *Sort
	sortSpec    string
	now         func() time.Time
}

// StorageOption configures a Storage.
type StorageOption func(*Storage)

// WithWidgets sets the storage's filter widgets, applied in declaration
// order.
func WithWidgets(widgets ...*Widget) StorageOption {
	return func(s *Storage) { s.widgets = widgets }
}

// WithTitle sets the sheet title used in spreadsheet exports.
func WithTitle(title string) StorageOption {
	return func(s *Storage) { s.title = title }
}

// WithIdentifier sets the primary-key field exposed in the JSON envelope.
func WithIdentifier(field string) StorageOption {
	return func(s *Storage) { s.identifier = field }
}

// WithDefaultSort sets the sort applied when a request carries none. The
// spec is a column name, with a "-" prefix for descending. A name that does
// not resolve to a column leaves the default unset; it is not an error.
func WithDefaultSort(spec string) StorageOption {
	return func(s *Storage) { s.sortSpec = spec }
}

// WithStorageGetter replaces the accessor used to read identifier values off
// records.
func WithStorageGetter(get Getter) StorageOption {
	return func(s *Storage) { s.get = get }
}

// WithExportClock overrides the timestamp source for export preambles.
func WithExportClock(now func() time.Time) StorageOption {
	return func(s *Storage) { s.now = now }
}

// NewStorage builds a storage over a collection. Column and widget names
// must each be unique; duplicates fail construction.
func NewStorage(qs Collection, columns []*Column, opts ...StorageOption) (*Storage, error) {
	s := &Storage{
		qs:         qs,
		columns:    columns,
		title:      "Sheet",
		identifier: "id",
		get:        DefaultGetter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[string]bool, len(s.columns))
	for _, col := range s.columns {
		if seen[col.Name()] {
			return nil, &ConfigError{Component: "storage", Name: col.Name(), Err: ErrDuplicateColumn}
		}
		seen[col.Name()] = true
	}

	seen = make(map[string]bool, len(s.widgets))
	for _, w := range s.widgets {
		if seen[w.Name()] {
			return nil, &ConfigError{Component: "storage", Name: w.Name(), Err: ErrDuplicateWidget}
		}
		seen[w.Name()] = true
	}

	if s.sortSpec != "" {
		spec, desc := strings.CutPrefix(s.sortSpec, "-")
		if col := s.Column(spec); col != nil && col.Sortable() {
			s.defaultSort = &Sort{Column: col, Desc: desc}
		}
	}

	return s, nil
}

// Columns returns the columns in declaration order.
func (s *Storage) Columns() []*Column { return s.columns }

// Column returns the named column, or nil.
func (s *Storage) Column(name string) *Column {
	for _, col := range s.columns {
		if col.Name() == name {
			return col
		}
	}
	return nil
}

// Widgets returns the widgets in declaration order.
func (s *Storage) Widgets() []*Widget { return s.widgets }

// Widget returns the named widget, or nil.
func (s *Storage) Widget(name string) *Widget {
	for _, w := range s.widgets {
		if w.Name() == name {
			return w
		}
	}
	return nil
}

// Header returns the column labels in declaration order.
func (s *Storage) Header() []string {
	header := make([]string, len(s.columns))
	for i, col := range s.columns {
		header[i] = col.Label()
	}
	return header
}

// Title returns the sheet title.
func (s *Storage) Title() string { return s.title }

// Identifier returns the primary-key field name.
func (s *Storage) Identifier() string { return s.identifier }

// DefaultSort returns the resolved default sort, or nil.
func (s *Storage) DefaultSort() *Sort { return s.defaultSort }

// FilterAndSort applies every widget's criterion in declaration order, then
// the explicit sort if given, the default sort otherwise, or none.
func (s *Storage) FilterAndSort(params url.Values, sort *Sort) (Collection, error) {
	qs := s.qs
	var err error
	for _, w := range s.widgets {
		if qs, err = w.Apply(qs, params); err != nil {
			return nil, err
		}
	}

	if sort == nil {
		sort = s.defaultSort
	}
	if sort != nil {
		if qs, err = sort.Column.Sort(qs, sort.Desc); err != nil {
			return nil, err
		}
	}

	return qs, nil
}

// DescribeExportData returns the preamble rows for an export file: when the
// file was generated, and one row per widget active in this request.
func (s *Storage) DescribeExportData(params url.Values) ([]Description, error) {
	rows := []Description{
		{Label: "Exported on", Value: s.now().Format("2006-01-02 15:04:05")},
	}
	for _, w := range s.widgets {
		d, err := w.ExportDescription(params)
		if err != nil {
			return nil, err
		}
		if d != nil {
			rows = append(rows, *d)
		}
	}
	return rows, nil
}

// JSONResult is the data-source envelope consumed by the client-side grid:
// the primary-key field name, the visible row window, and the total row
// count of the filtered collection for paging.
type JSONResult struct {
	Identifier string           `json:"identifier"`
	Items      []map[string]any `json:"items"`
	NumRows    int              `json:"numRows"`
}

// SerializeJSON filters, sorts, counts, slices and renders the collection
// for the interactive grid. NumRows is computed before pagination, so it is
// independent of the start/count window.
func (s *Storage) SerializeJSON(ctx context.Context, params url.Values, sort *Sort) (*JSONResult, error) {
	qs, err := s.FilterAndSort(params, sort)
	if err != nil {
		return nil, err
	}

	total, err := qs.Count(ctx)
	if err != nil {
		return nil, err
	}

	start, end := pageWindow(params)
	records, err := qs.Slice(start, end).All(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(s.columns)+1)
		for _, col := range s.columns {
			row[col.Name()] = col.Serializer().Serialize(record, FormatJSON)
		}
		row[s.identifier] = s.get(record, s.identifier)
		items = append(items, row)
	}

	return &JSONResult{
		Identifier: s.identifier,
		Items:      items,
		NumRows:    total,
	}, nil
}

// pageWindow reads the start/count pagination parameters. Start defaults to
// zero; an absent, zero or unparsable count means no limit.
func pageWindow(params url.Values) (start, end int) {
	start, err := strconv.Atoi(params.Get("start"))
	if err != nil || start < 0 {
		start = 0
	}
	count, err := strconv.Atoi(params.Get("count"))
	if err != nil || count <= 0 {
		return start, -1
	}
	return start, start + count
}
