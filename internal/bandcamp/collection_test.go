package bandcamp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/bcdl/internal/httpclient"
)

func TestCollectionClient_FetchAll_FollowsCursor(t *testing.T) {
	pages := map[string]collectionResponse{}
	var firstCursor string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, collectionItemsPath, r.URL.Path)

		var req collectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "fan-1", req.FanID)
		assert.Equal(t, 2, req.Count)

		page, ok := pages[req.OlderThanToken]
		if !ok {
			// Whatever the initial timestamp cursor was, serve page one.
			if firstCursor == "" {
				firstCursor = req.OlderThanToken
				page = pages["first"]
			} else {
				t.Fatalf("unexpected cursor %q", req.OlderThanToken)
			}
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer srv.Close()

	pages["first"] = collectionResponse{
		MoreAvailable: true,
		Items: []CollectionItem{
			{Token: "t1", ItemURL: "http://b/album/one", BandName: "B1", AlbumTitle: "One", Purchased: true},
			{Token: "t2", ItemURL: "http://b/album/two", BandName: "B2", AlbumTitle: "Two", Purchased: true},
		},
	}
	pages["t2"] = collectionResponse{
		MoreAvailable: false,
		Items: []CollectionItem{
			{Token: "t3", ItemURL: "http://b/album/three", BandName: "B3", AlbumTitle: "Three", Purchased: false},
		},
	}

	client := NewCollectionClient(httpclient.New("cookie", nil), srv.URL, 2, nil)
	items, err := client.FetchAll(context.Background(), "fan-1")
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "One", items[0].AlbumTitle)
	assert.Equal(t, "Three", items[2].AlbumTitle)
	assert.False(t, items[2].Purchased)
}

func TestCollectionClient_FetchAll_EmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(collectionResponse{MoreAvailable: false}))
	}))
	defer srv.Close()

	client := NewCollectionClient(httpclient.New("", nil), srv.URL, 0, nil)
	items, err := client.FetchAll(context.Background(), "fan-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCollectionClient_FetchAll_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewCollectionClient(httpclient.New("", nil), srv.URL, 5, nil)
	_, err := client.FetchAll(context.Background(), "fan-1")

	var se *httpclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
}
