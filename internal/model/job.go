package model

// AssetJob is one downloadable asset: where to put it and where to get
// it from. Jobs are produced by asset resolution and consumed by the
// download orchestrator.
type AssetJob struct {
	// Destination is the absolute local path the asset is written to.
	Destination string

	// SourceURL is the URL the asset is fetched from.
	SourceURL string

	// Track is the track this job belongs to, or nil for cover art.
	// Used for ID3 tagging after a successful download.
	Track *Track
}

// IsCoverArt reports whether this job downloads the album cover rather
// than a track.
func (j AssetJob) IsCoverArt() bool {
	return j.Track == nil
}
