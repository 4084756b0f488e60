package datagrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "xlsx", FormatSheet.Extension())
	assert.Equal(t, "csv", FormatCSV.Extension())
	assert.Equal(t, "", FormatJSON.Extension())

	assert.Equal(t, "text/csv", FormatCSV.MIMEType())
	assert.Contains(t, FormatSheet.MIMEType(), "spreadsheetml")
}

type fieldRecord map[string]any

func (r fieldRecord) Field(name string) any { return r[name] }

func TestDefaultGetter(t *testing.T) {
	t.Run("map record", func(t *testing.T) {
		record := map[string]any{"name": "alice"}
		assert.Equal(t, "alice", DefaultGetter(record, "name"))
		assert.Nil(t, DefaultGetter(record, "missing"))
	})

	t.Run("fielder record", func(t *testing.T) {
		record := fieldRecord{"name": "bob"}
		assert.Equal(t, "bob", DefaultGetter(record, "name"))
	})

	t.Run("unknown shape yields nil", func(t *testing.T) {
		assert.Nil(t, DefaultGetter(42, "name"))
		assert.Nil(t, DefaultGetter(nil, "name"))
	})
}
