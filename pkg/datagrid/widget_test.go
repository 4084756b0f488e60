package datagrid_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridable/datagrid/pkg/datagrid"
	"github.com/gridable/datagrid/pkg/datagrid/collection/memory"
)

func TestNewWidgetValidation(t *testing.T) {
	t.Run("missing converter fails", func(t *testing.T) {
		_, err := datagrid.NewWidget("name",
			datagrid.WithFilter(datagrid.NewStringFilter("name", datagrid.OpContains)),
		)
		var cfgErr *datagrid.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.ErrorIs(t, err, datagrid.ErrMissingConverter)
	})

	t.Run("missing filter fails", func(t *testing.T) {
		_, err := datagrid.NewWidget("name",
			datagrid.WithConverter(datagrid.NewStringConverter("name")),
		)
		assert.ErrorIs(t, err, datagrid.ErrMissingFilter)
	})

	t.Run("label defaults to humanized name", func(t *testing.T) {
		w, err := datagrid.NewStringWidget("first_name")
		require.NoError(t, err)
		assert.Equal(t, "First name", w.Label())
	})

	t.Run("label override", func(t *testing.T) {
		w, err := datagrid.NewStringWidget("first_name", datagrid.WithWidgetLabel("Given name"))
		require.NoError(t, err)
		assert.Equal(t, "Given name", w.Label())
	})
}

func TestWidgetApply(t *testing.T) {
	qs := peopleCollection()
	w, err := datagrid.NewStringWidget("name")
	require.NoError(t, err)

	t.Run("absent parameter leaves collection unchanged", func(t *testing.T) {
		got, err := w.Apply(qs, url.Values{})
		require.NoError(t, err)
		assert.Len(t, names(t, got), 3)
	})

	t.Run("present parameter narrows", func(t *testing.T) {
		got, err := w.Apply(qs, url.Values{"name": {"b"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, names(t, got))
	})

	t.Run("decode failure propagates", func(t *testing.T) {
		seen, err := datagrid.NewDateTimeWidget("seen", time.UTC)
		require.NoError(t, err)

		_, err = seen.Apply(qs, url.Values{"seen": {"garbage"}})
		var decodeErr *datagrid.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})
}

func TestWidgetExportDescription(t *testing.T) {
	w, err := datagrid.NewStringWidget("name")
	require.NoError(t, err)

	t.Run("absent widget describes nothing", func(t *testing.T) {
		d, err := w.ExportDescription(url.Values{})
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("active widget describes label and value", func(t *testing.T) {
		d, err := w.ExportDescription(url.Values{"name": {"bo"}})
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "Name", d.Label)
		assert.Equal(t, "bo", d.Value)
	})

	t.Run("refresh widget never describes itself", func(t *testing.T) {
		refresh, err := datagrid.NewPeriodicRefreshWidget("refresh")
		require.NoError(t, err)

		d, err := refresh.ExportDescription(url.Values{"refresh": {"true"}})
		require.NoError(t, err)
		assert.Nil(t, d)
	})
}

func TestRangeWidgets(t *testing.T) {
	gte, err := datagrid.NewDateTimeGreaterOrEqual("seen", time.UTC)
	require.NoError(t, err)
	lte, err := datagrid.NewDateTimeLessOrEqual("seen", time.UTC)
	require.NoError(t, err)

	t.Run("names carry the operation suffix", func(t *testing.T) {
		assert.Equal(t, "seen_gte", gte.Name())
		assert.Equal(t, "seen_lte", lte.Name())
	})

	t.Run("constraints point at the partner", func(t *testing.T) {
		require.NotNil(t, gte.Constraints())
		assert.Equal(t, datagrid.Minimum, gte.Constraints().Kind)
		assert.Equal(t, "seen_lte", gte.Constraints().Name)

		require.NotNil(t, lte.Constraints())
		assert.Equal(t, datagrid.Maximum, lte.Constraints().Kind)
		assert.Equal(t, "seen_gte", lte.Constraints().Name)
	})

	t.Run("pair narrows to a window", func(t *testing.T) {
		qs := peopleCollection()
		got, err := gte.Apply(qs, url.Values{"seen_gte": {"2012-01-01 00:00:00"}})
		require.NoError(t, err)
		got, err = lte.Apply(got, url.Values{"seen_lte": {"2012-01-01 23:59:59"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, names(t, got))
	})
}

func TestForeignKeyComboBox(t *testing.T) {
	departments := memory.New([]datagrid.Record{
		map[string]any{"id": 1, "name": "Engineering"},
		map[string]any{"id": 2, "name": "Support"},
	})
	people := memory.New([]datagrid.Record{
		map[string]any{"name": "alice", "department": map[string]any{"id": 1, "name": "Engineering"}},
		map[string]any{"name": "bob", "department": map[string]any{"id": 2, "name": "Support"}},
	})

	w, err := datagrid.NewForeignKeyComboBox("department", departments, "name", "")
	require.NoError(t, err)

	t.Run("filters outer collection by related id", func(t *testing.T) {
		got, err := w.Apply(people, url.Values{"department": {"2"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, names(t, got))
	})

	t.Run("negative id is ignored", func(t *testing.T) {
		got, err := w.Apply(people, url.Values{"department": {"-1"}})
		require.NoError(t, err)
		assert.Len(t, names(t, got), 2)
	})

	t.Run("nested storage serves lookup labels", func(t *testing.T) {
		nested := w.Nested()
		require.NotNil(t, nested)

		result, err := nested.SerializeJSON(context.Background(), url.Values{"label": {"Sup*"}}, nil)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Support", result.Items[0]["label"])
	})

	t.Run("empty lookup input matches everything", func(t *testing.T) {
		nested := w.Nested()
		result, err := nested.SerializeJSON(context.Background(), url.Values{"label": {""}}, nil)
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
		assert.Equal(t, 2, result.NumRows)
	})
}

func TestPeriodicOlderThanNowRefreshWidget(t *testing.T) {
	qs := peopleCollection()
	w, err := datagrid.NewPeriodicOlderThanNowRefreshWidget("seen",
		datagrid.WithFilter(datagrid.NewOlderThanNowFilter("seen", datagrid.WithClock(func() time.Time {
			return time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
		}))),
	)
	require.NoError(t, err)

	got, err := w.Apply(qs, url.Values{"seen": {"true"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, names(t, got))

	got, err = w.Apply(qs, url.Values{"seen": {"false"}})
	require.NoError(t, err)
	assert.Len(t, names(t, got), 3)
}
