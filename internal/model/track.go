package model

import "fmt"

// Track represents a single track within an album.
type Track struct {
	// Number is the track number (1-indexed, positive).
	Number int

	// Title is the track title.
	Title string

	// Duration is the track length in seconds, if known.
	Duration float64

	// Lyrics contains the song lyrics, if available.
	Lyrics string

	// Sources maps encoding quality labels (for example "mp3-128") to
	// download URLs. May be empty or nil when Bandcamp exposes no file
	// for the track.
	Sources map[string]string
}

// FileName returns the destination filename for this track,
// `NN - Title.mp3`, with the title sanitized to a single path segment.
func (t *Track) FileName() string {
	return fmt.Sprintf("%02d - %s.mp3", t.Number, SanitizeSegment(t.Title))
}
