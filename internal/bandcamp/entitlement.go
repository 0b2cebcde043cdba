package bandcamp

import (
	"errors"
	"fmt"

	"github.com/handiism/bcdl/internal/model"
)

// ErrNotPurchased is returned when retrieval is attempted for an album
// the account does not own.
var ErrNotPurchased = errors.New("album is not purchased")

// AssertEntitled rejects albums whose purchase flag is false. It must be
// called before any of the album's asset jobs are dispatched; resolving
// jobs for unowned content is allowed, fetching them is not.
func AssertEntitled(album *model.Album) error {
	if !album.IsPurchased {
		return fmt.Errorf("%s - %s: %w", album.Artist, album.Title, ErrNotPurchased)
	}
	return nil
}
