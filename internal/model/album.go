package model

import (
	"path/filepath"
	"strings"
)

// Album represents one Bandcamp album (or standalone track page) with the
// metadata needed to download it:
//   - Artist and Title, which determine the destination folder
//   - IsPurchased, checked before any asset is fetched
//   - Tracks in page order, which determines numbering and job order
type Album struct {
	// Artist is the album artist name.
	Artist string

	// Title is the album title.
	Title string

	// IsPurchased reports whether the requesting account owns this album.
	// Downloads must not be dispatched when this is false.
	IsPurchased bool

	// Tracks contains all tracks in their original page order.
	Tracks []*Track
}

// Folder returns the destination directory for this album's assets,
// `<libraryRoot>/<artist>/<album title>`. Artist and title are sanitized
// so each contributes exactly one path segment.
func (a *Album) Folder(libraryRoot string) string {
	return filepath.Join(libraryRoot, SanitizeSegment(a.Artist), SanitizeSegment(a.Title))
}

// SanitizeSegment makes a name usable as a single path segment by
// replacing path-separator characters with a space. No other characters
// are touched; destination paths must stay a deterministic function of
// the metadata so that re-resolution is comparable by path alone.
func SanitizeSegment(name string) string {
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.ReplaceAll(name, "\\", " ")
	return name
}
