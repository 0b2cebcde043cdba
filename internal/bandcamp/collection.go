package bandcamp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/bcdl/internal/httpclient"
)

// DefaultBaseURL is the production Bandcamp origin. Tests point the
// client at an httptest server instead.
const DefaultBaseURL = "https://bandcamp.com"

const collectionItemsPath = "/api/fancollection/1/collection_items"

// CollectionItem is one entry of a fan's purchased-items listing.
type CollectionItem struct {
	// Token is the opaque pagination cursor this item represents.
	Token string `json:"token"`

	// ItemURL is the album/track detail page.
	ItemURL string `json:"item_url"`

	// ItemArtURL is the cover art URL, when the listing carries one.
	ItemArtURL string `json:"item_art_url"`

	// BandName is the artist name.
	BandName string `json:"band_name"`

	// AlbumTitle is the item title.
	AlbumTitle string `json:"album_title"`

	// Purchased reports whether the item is owned (collections can also
	// carry wishlisted entries).
	Purchased bool `json:"purchased"`
}

type collectionRequest struct {
	FanID          string `json:"fan_id"`
	OlderThanToken string `json:"older_than_token"`
	Count          int    `json:"count"`
}

type collectionResponse struct {
	MoreAvailable bool             `json:"more_available"`
	Items         []CollectionItem `json:"items"`
}

// CollectionClient enumerates a fan's purchased collection through the
// paginated fancollection API.
type CollectionClient struct {
	client   *httpclient.Client
	baseURL  string
	pageSize int
	log      *zap.Logger
}

// NewCollectionClient creates a CollectionClient. baseURL falls back to
// DefaultBaseURL when empty, pageSize to 25 when non-positive.
func NewCollectionClient(client *httpclient.Client, baseURL string, pageSize int, log *zap.Logger) *CollectionClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = 25
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CollectionClient{client: client, baseURL: baseURL, pageSize: pageSize, log: log}
}

// FetchAll follows the listing cursor until the server reports no more
// pages and returns every item in listing order. The cursor for each
// page is the last item token of the page before it.
func (c *CollectionClient) FetchAll(ctx context.Context, fanID string) ([]CollectionItem, error) {
	var items []CollectionItem

	cursor := fmt.Sprintf("%d:0:a::", time.Now().UTC().Unix())
	for {
		req := collectionRequest{FanID: fanID, OlderThanToken: cursor, Count: c.pageSize}

		var page collectionResponse
		if err := c.client.PostJSON(ctx, c.baseURL+collectionItemsPath, req, &page); err != nil {
			return nil, fmt.Errorf("collection page at cursor %q: %w", cursor, err)
		}

		items = append(items, page.Items...)
		c.log.Debug("collection page fetched",
			zap.Int("items", len(page.Items)),
			zap.Bool("more", page.MoreAvailable))

		if !page.MoreAvailable || len(page.Items) == 0 {
			return items, nil
		}
		cursor = page.Items[len(page.Items)-1].Token
	}
}
