package datagrid

// Format identifies an output rendition of a grid.
type Format string

// Output format constants (typed).
const (
	FormatJSON  Format = "json"
	FormatSheet Format = "xls"
	FormatCSV   Format = "csv"
	FormatHTML  Format = "html"
)

var formatExtensions = map[Format]string{
	FormatSheet: "xlsx",
	FormatCSV:   "csv",
	FormatHTML:  "html",
}

var formatMIMETypes = map[Format]string{
	FormatSheet: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatCSV:   "text/csv",
	FormatHTML:  "text/html",
}

// Extension returns the file extension for a downloadable format, or "" for
// formats that are not served as files.
func (f Format) Extension() string {
	return formatExtensions[f]
}

// MIMEType returns the content type for a downloadable format.
func (f Format) MIMEType() string {
	return formatMIMETypes[f]
}

// Record is one row of the underlying collection. The record shape is owned
// by the collection implementation; the core only touches it through Getter
// functions.
type Record any

// Getter extracts one named field from a record. Serializers and in-memory
// collections take a Getter at construction so no reflection is needed.
type Getter func(record Record, field string) any

// Fielder is the optional accessor interface record types may implement to
// work with DefaultGetter.
type Fielder interface {
	Field(name string) any
}

// DefaultGetter reads a field from map records and from types implementing
// Fielder. Unknown shapes and missing keys yield nil, which serializers
// render as the no-data placeholder.
func DefaultGetter(record Record, field string) any {
	switch r := record.(type) {
	case map[string]any:
		return r[field]
	case Fielder:
		return r.Field(field)
	case nil:
		return nil
	}
	return nil
}
