package reportstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entity(partition, row string) Entity {
	return Entity{
		PartitionKey: partition,
		RowKey:       row,
		Properties:   map[string]any{"repo": partition},
	}
}

func TestMemoryStorePutIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := Entity{PartitionKey: "acme/api", RowKey: "r1", Properties: map[string]any{"source": "ci"}}
	require.NoError(t, store.Put(ctx, first))

	// Re-inserting the same row succeeds and keeps the original.
	dup := Entity{PartitionKey: "acme/api", RowKey: "r1", Properties: map[string]any{"source": "other"}}
	require.NoError(t, store.Put(ctx, dup))

	got, err := store.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ci", got.Properties["source"])
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreGetByIDAbsent(t *testing.T) {
	store := NewMemoryStore()
	got, err := store.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreListPage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := range 5 {
		require.NoError(t, store.Put(ctx, entity("acme/api", fmt.Sprintf("r%d", i))))
	}
	require.NoError(t, store.Put(ctx, entity("other/api", "x1")))

	page, err := store.ListPage(ctx, "acme/api", 2, nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "r0", page.Items[0].RowKey)
	assert.Equal(t, "r1", page.Items[1].RowKey)
	require.NotNil(t, page.Next)
	assert.Equal(t, "r2", page.Next.NextRowKey)

	page, err = store.ListPage(ctx, "acme/api", 2, page.Next)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "r2", page.Items[0].RowKey)
	require.NotNil(t, page.Next)

	page, err = store.ListPage(ctx, "acme/api", 2, page.Next)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "r4", page.Items[0].RowKey)
	assert.Nil(t, page.Next, "last page carries no continuation token")
}

func TestMemoryStoreListPageEmptyPartition(t *testing.T) {
	store := NewMemoryStore()
	page, err := store.ListPage(context.Background(), "nothing", 50, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.Next)
}

func TestMemoryStoreListPageExactBoundary(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, entity("p", "a")))
	require.NoError(t, store.Put(ctx, entity("p", "b")))

	page, err := store.ListPage(ctx, "p", 2, nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Nil(t, page.Next, "a full final page carries no continuation token")
}
