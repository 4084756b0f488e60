package datagrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnDefaults(t *testing.T) {
	col := NewStringColumn("first_name")

	assert.Equal(t, "first_name", col.Name())
	assert.Equal(t, "First name", col.Label())
	assert.True(t, col.Sortable())
	assert.Equal(t, "first_name", col.SortField())
}

func TestColumnOptions(t *testing.T) {
	col := NewStringColumn("department",
		WithLabel("Dept"),
		WithWidth(120),
		WithSortField("department__name"),
	)

	assert.Equal(t, "Dept", col.Label())
	assert.Equal(t, 120, col.Width())
	assert.Equal(t, "department__name", col.SortField())
}

func TestColumnNotSortable(t *testing.T) {
	col := NewStringColumn("name", Sortable(false))

	assert.False(t, col.Sortable())
	assert.Equal(t, "", col.SortField())

	_, err := col.Sort(nil, false)
	assert.ErrorIs(t, err, ErrColumnNotSortable)
}

func TestHrefColumnNotSortableByDefault(t *testing.T) {
	resolver := func(name string, args ...any) string { return "/x" }
	col := NewHrefColumn("detail", NewHrefSerializer("${name}", NewURLSerializer("id", "x", resolver)))

	assert.False(t, col.Sortable())
}

func TestHumanizeName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"name", "Name"},
		{"first_name", "First name"},
		{"date_of_birth", "Date of birth"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeName(tt.name))
	}
}
