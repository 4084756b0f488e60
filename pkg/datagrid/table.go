package datagrid

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/ncruces/go-strftime"
)

// Table is the request-facing façade over one Storage. The table's name is
// both its namespace parameter on the wire and the default export filename.
type Table struct {
	name     string
	storage  *Storage
	filename string
	now      func() time.Time
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithFilenameTemplate sets the export filename template. The template may
// contain strftime conversion codes, expanded at download time.
func WithFilenameTemplate(template string) TableOption {
	return func(t *Table) { t.filename = template }
}

// WithFilenameClock overrides the timestamp source for filename expansion.
func WithFilenameClock(now func() time.Time) TableOption {
	return func(t *Table) { t.now = now }
}

// NewTable builds a table façade over a storage.
func NewTable(name string, storage *Storage, opts ...TableOption) *Table {
	t := &Table{name: name, storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	if t.filename == "" {
		t.filename = name
	}
	return t
}

func (t *Table) Name() string { return t.name }

func (t *Table) Storage() *Storage { return t.storage }

// WillHandle reports whether this table's namespace parameter is present in
// the request.
func (t *Table) WillHandle(params url.Values) bool {
	return params.Has(t.name)
}

// SortFrom resolves the request's sort parameter ("[-]column") against the
// table's columns. Unknown and non-sortable columns resolve to nil.
func (t *Table) SortFrom(params url.Values) *Sort {
	spec := params.Get("sort")
	if spec == "" {
		return nil
	}
	name, desc := strings.CutPrefix(spec, "-")
	col := t.storage.Column(name)
	if col == nil || !col.Sortable() {
		return nil
	}
	return &Sort{Column: col, Desc: desc}
}

// ExportFilename computes the download filename for a format: the template
// with strftime codes expanded and spaces replaced by underscores.
func (t *Table) ExportFilename(format Format) string {
	name := fmt.Sprintf("%s.%s", t.filename, format.Extension())
	name = strftime.Format(name, t.now())
	return strings.ReplaceAll(name, " ", "_")
}

// HandleRequest dispatches on the namespace parameter's value: "json" for
// the interactive envelope, "xls" or "csv" for file downloads, and
// "widget,<name>" for a nested widget storage. Anything else, an unknown
// widget, or a widget without nested storage is a not-found condition for
// the caller to map; it never panics mid-request.
func (t *Table) HandleRequest(w http.ResponseWriter, r *http.Request) error {
	params := r.URL.Query()
	sort := t.SortFrom(params)

	switch value := params.Get(t.name); {
	case value == "json":
		result, err := t.storage.SerializeJSON(r.Context(), params, sort)
		if err != nil {
			return err
		}
		render.JSON(w, r, result)
		return nil

	case value == "xls":
		data, err := t.storage.SerializeSheet(r.Context(), params, sort)
		if err != nil {
			return err
		}
		t.fileResponse(w, data, FormatSheet)
		return nil

	case value == "csv":
		data, err := t.storage.SerializeCSV(r.Context(), params, sort)
		if err != nil {
			return err
		}
		t.fileResponse(w, data, FormatCSV)
		return nil

	case strings.HasPrefix(value, "widget,"):
		name := strings.TrimPrefix(value, "widget,")
		widget := t.storage.Widget(name)
		if widget == nil {
			return ErrWidgetNotFound
		}
		nested := widget.Nested()
		if nested == nil {
			return ErrNoNestedStorage
		}

		stripped := make(url.Values, len(params))
		for key, values := range params {
			if key == t.name || key == "sort" {
				continue
			}
			stripped[key] = values
		}

		result, err := nested.SerializeJSON(r.Context(), stripped, nil)
		if err != nil {
			return err
		}
		render.JSON(w, r, result)
		return nil
	}

	return ErrUnknownFormat
}

func (t *Table) fileResponse(w http.ResponseWriter, data []byte, format Format) {
	disposition := url.Values{"filename": {t.ExportFilename(format)}}
	w.Header().Set("Content-Type", format.MIMEType())
	w.Header().Set("Content-Disposition", "attachment; "+disposition.Encode())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
