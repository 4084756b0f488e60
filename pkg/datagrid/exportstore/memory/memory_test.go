package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridable/datagrid/pkg/datagrid"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Save(ctx, "people/a.csv", "text/csv", strings.NewReader("a,b\n")))

	body, err := store.Open(ctx, "people/a.csv")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	url, err := store.URL(ctx, "people/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "memory://people/a.csv", url)
}

func TestStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Open(ctx, "nope")
	assert.ErrorIs(t, err, datagrid.ErrExportNotFound)

	_, err = store.URL(ctx, "nope")
	assert.ErrorIs(t, err, datagrid.ErrExportNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "nope"), datagrid.ErrExportNotFound)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Save(ctx, "k", "text/csv", strings.NewReader("x")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Open(ctx, "k")
	assert.ErrorIs(t, err, datagrid.ErrExportNotFound)
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Save(ctx, "people/a.csv", "text/csv", strings.NewReader("aa")))
	require.NoError(t, store.Save(ctx, "people/b.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", strings.NewReader("bbb")))
	require.NoError(t, store.Save(ctx, "orders/c.csv", "text/csv", strings.NewReader("c")))

	metas, err := store.List(ctx, "people/")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "people/a.csv", metas[0].Key)
	assert.Equal(t, int64(2), metas[0].Size)
	assert.Equal(t, "people/b.xlsx", metas[1].Key)
}
