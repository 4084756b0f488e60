package datagrid

import (
	"fmt"
	"os"
	"time"
)

// NoData is the placeholder rendered for a missing or nil field value,
// shared by every terminal serializer.
const NoData = "[no data]"

// Serializer renders one field of one record to a display string. Rendering
// may be format-aware; most serializers ignore the format.
type Serializer interface {
	// FieldName is the (possibly composite) field path this serializer
	// covers, used for sort keys and foreign-key composition.
	FieldName() string

	Serialize(record Record, format Format) string
}

type fieldAccess struct {
	field string
	get   Getter
}

// SerializerOption configures field extraction on a serializer.
type SerializerOption func(*fieldAccess)

// WithFieldGetter replaces the default record accessor.
func WithFieldGetter(get Getter) SerializerOption {
	return func(f *fieldAccess) { f.get = get }
}

func newFieldAccess(field string, opts []SerializerOption) fieldAccess {
	f := fieldAccess{field: field, get: DefaultGetter}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func (f fieldAccess) FieldName() string { return f.field }

func (f fieldAccess) extract(record Record) any { return f.get(record, f.field) }

// StringSerializer renders a field with its natural string form.
type StringSerializer struct {
	fieldAccess
}

func NewStringSerializer(field string, opts ...SerializerOption) *StringSerializer {
	return &StringSerializer{newFieldAccess(field, opts)}
}

func (s *StringSerializer) Serialize(record Record, _ Format) string {
	value := s.extract(record)
	if value == nil {
		return NoData
	}
	return fmt.Sprint(value)
}

// DateSerializer renders a time value as YYYY-MM-DD.
type DateSerializer struct {
	fieldAccess
}

func NewDateSerializer(field string, opts ...SerializerOption) *DateSerializer {
	return &DateSerializer{newFieldAccess(field, opts)}
}

func (s *DateSerializer) Serialize(record Record, _ Format) string {
	value := s.extract(record)
	if value == nil {
		return NoData
	}
	if t, ok := value.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	return fmt.Sprint(value)
}

// DateTimeSerializer renders a time value as YYYY-MM-DD HH:MM:SS.
type DateTimeSerializer struct {
	fieldAccess
}

func NewDateTimeSerializer(field string, opts ...SerializerOption) *DateTimeSerializer {
	return &DateTimeSerializer{newFieldAccess(field, opts)}
}

func (s *DateTimeSerializer) Serialize(record Record, _ Format) string {
	value := s.extract(record)
	if value == nil {
		return NoData
	}
	if t, ok := value.(time.Time); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(value)
}

// BooleanSerializer renders true as "yes" and false as "-"; the no-data
// placeholder is reserved for nil.
type BooleanSerializer struct {
	fieldAccess
}

func NewBooleanSerializer(field string, opts ...SerializerOption) *BooleanSerializer {
	return &BooleanSerializer{newFieldAccess(field, opts)}
}

func (s *BooleanSerializer) Serialize(record Record, _ Format) string {
	value := s.extract(record)
	if value == nil {
		return NoData
	}
	if b, ok := value.(bool); ok {
		if b {
			return "yes"
		}
		return "-"
	}
	return fmt.Sprint(value)
}

// DurationSerializer renders an elapsed time as fractional seconds.
type DurationSerializer struct {
	fieldAccess
}

func NewDurationSerializer(field string, opts ...SerializerOption) *DurationSerializer {
	return &DurationSerializer{newFieldAccess(field, opts)}
}

func (s *DurationSerializer) Serialize(record Record, _ Format) string {
	value := s.extract(record)
	if value == nil {
		return NoData
	}
	if d, ok := value.(time.Duration); ok {
		return fmt.Sprintf("%.2f sec.", d.Seconds())
	}
	return fmt.Sprint(value)
}

// FormatStringSerializer renders a template over whole-record fields, with
// ${field} placeholders resolved through the getter.
type FormatStringSerializer struct {
	format string
	get    Getter
}

func NewFormatStringSerializer(format string, opts ...SerializerOption) *FormatStringSerializer {
	f := newFieldAccess("", opts)
	return &FormatStringSerializer{format: format, get: f.get}
}

func (s *FormatStringSerializer) FieldName() string { return "" }

func (s *FormatStringSerializer) Serialize(record Record, _ Format) string {
	return os.Expand(s.format, func(field string) string {
		value := s.get(record, field)
		if value == nil {
			return NoData
		}
		return fmt.Sprint(value)
	})
}

// ForeignKeySerializer extracts a related record through one field and
// delegates rendering to an inner serializer. The composite field name is
// outer__inner, matching collection field-path traversal.
type ForeignKeySerializer struct {
	fieldAccess
	inner Serializer
}

func NewForeignKeySerializer(field string, inner Serializer, opts ...SerializerOption) *ForeignKeySerializer {
	return &ForeignKeySerializer{
		fieldAccess: newFieldAccess(field, opts),
		inner:       inner,
	}
}

func (s *ForeignKeySerializer) FieldName() string {
	return s.field + "__" + s.inner.FieldName()
}

func (s *ForeignKeySerializer) Serialize(record Record, format Format) string {
	related := s.extract(record)
	if related == nil {
		return NoData
	}
	return s.inner.Serialize(related, format)
}

// URLResolver turns a route name and arguments into a URL.
type URLResolver func(name string, args ...any) string

// URLSerializer renders a field value as a resolved URL. Useful for images
// and detail links.
type URLSerializer struct {
	fieldAccess
	urlName  string
	resolver URLResolver
}

func NewURLSerializer(field, urlName string, resolver URLResolver, opts ...SerializerOption) *URLSerializer {
	return &URLSerializer{
		fieldAccess: newFieldAccess(field, opts),
		urlName:     urlName,
		resolver:    resolver,
	}
}

func (s *URLSerializer) Serialize(record Record, _ Format) string {
	value := s.extract(record)
	if value == nil {
		return ""
	}
	return s.resolver(s.urlName, value)
}

// HrefSerializer wraps a format-string text in a link. The interactive JSON
// format carries both the resolved URL and the text, newline-separated, for
// the client grid to render an anchor; file exports carry the text only.
type HrefSerializer struct {
	text *FormatStringSerializer
	url  Serializer
}

func NewHrefSerializer(format string, url Serializer, opts ...SerializerOption) *HrefSerializer {
	return &HrefSerializer{
		text: NewFormatStringSerializer(format, opts...),
		url:  url,
	}
}

func (s *HrefSerializer) FieldName() string { return s.text.FieldName() }

func (s *HrefSerializer) Serialize(record Record, format Format) string {
	text := s.text.Serialize(record, format)
	if format != FormatJSON {
		return text
	}
	return s.url.Serialize(record, format) + "\n" + text
}
