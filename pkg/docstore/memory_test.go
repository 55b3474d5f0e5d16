package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "things", "t1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "things", "t1", testDoc{Name: "first", Count: 1}))

	doc, err := store.Get(ctx, "things", "t1")
	require.NoError(t, err)
	var got testDoc
	require.NoError(t, doc.Decode(&got))
	require.Equal(t, "first", got.Name)

	// Deleting twice is not an error.
	require.NoError(t, store.Delete(ctx, "things", "t1"))
	require.NoError(t, store.Delete(ctx, "things", "t1"))
	_, err = store.Get(ctx, "things", "t1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "things", "t1", testDoc{Name: "first", Count: 1}))

	require.NoError(t, store.Update(ctx, "things", "t1", map[string]interface{}{"count": 5}))

	doc, err := store.Get(ctx, "things", "t1")
	require.NoError(t, err)
	var got testDoc
	require.NoError(t, doc.Decode(&got))
	require.Equal(t, "first", got.Name)
	require.Equal(t, 5, got.Count)

	err = store.Update(ctx, "things", "missing", map[string]interface{}{"count": 1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryQueryFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "things", "a", testDoc{Name: "zeta", Count: 1}))
	require.NoError(t, store.Set(ctx, "things", "b", testDoc{Name: "alpha", Count: 1}))
	require.NoError(t, store.Set(ctx, "things", "c", testDoc{Name: "mid", Count: 2}))

	docs, err := store.Query(ctx, "things", Query{
		Filters: []Filter{{Field: "count", Value: 1}},
		OrderBy: "name",
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "b", docs[0].ID)
	require.Equal(t, "a", docs[1].ID)
}

func TestMemoryCollectionGroupSpansParents(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "fairs/f1/enrollments", "c1", testDoc{Name: "one"}))
	require.NoError(t, store.Set(ctx, "fairs/f2/enrollments", "c1", testDoc{Name: "two"}))
	require.NoError(t, store.Set(ctx, "fairs/f1/booths", "b1", testDoc{Name: "booth"}))

	docs, err := store.CollectionGroup(ctx, "enrollments", Query{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "f1", ParentID(docs[0].Path))
	require.Equal(t, "f2", ParentID(docs[1].Path))
}

func TestMemoryBatchAppliesAllOps(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, "things", "old", testDoc{Name: "old"}))

	batch := store.NewBatch()
	batch.Set("things", "new", testDoc{Name: "new"})
	batch.Set("others", "o1", testDoc{Name: "other"})
	batch.Delete("things", "old")
	require.NoError(t, batch.Commit(ctx))

	_, err := store.Get(ctx, "things", "old")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "things", "new")
	require.NoError(t, err)
	_, err = store.Get(ctx, "others", "o1")
	require.NoError(t, err)
}

func TestPathHelpers(t *testing.T) {
	require.Equal(t, "booths", CollectionName("fairs/f1/booths"))
	require.Equal(t, "fairs", CollectionName("fairs"))
	require.Equal(t, "f1", ParentID("fairs/f1/booths"))
	require.Equal(t, "", ParentID("fairs"))
}
