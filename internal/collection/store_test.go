package collection

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/bcdl/internal/bandcamp"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "collection.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "bcdl", "collection.db")

	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Replace([]bandcamp.CollectionItem{{Token: "t1"}}))
	got, err := store.List()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_ReplaceAndList(t *testing.T) {
	store := openTestStore(t)

	items := []bandcamp.CollectionItem{
		{Token: "t1", ItemURL: "http://b/album/one", BandName: "B1", AlbumTitle: "One", Purchased: true},
		{Token: "t2", ItemURL: "http://b/album/two", BandName: "B2", AlbumTitle: "Two", Purchased: false},
	}
	require.NoError(t, store.Replace(items))

	got, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestStore_ReplaceDropsPreviousListing(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Replace([]bandcamp.CollectionItem{
		{Token: "old-1"}, {Token: "old-2"}, {Token: "old-3"},
	}))
	require.NoError(t, store.Replace([]bandcamp.CollectionItem{
		{Token: "new-1"},
	}))

	got, err := store.List()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-1", got[0].Token)
}

func TestStore_ListEmpty(t *testing.T) {
	store := openTestStore(t)

	got, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_PreservesOrder(t *testing.T) {
	store := openTestStore(t)

	items := make([]bandcamp.CollectionItem, 30)
	for i := range items {
		items[i] = bandcamp.CollectionItem{Token: string(rune('a' + i%26)), AlbumTitle: "x"}
	}
	require.NoError(t, store.Replace(items))

	got, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, items, got)
}
