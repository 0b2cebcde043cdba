package bandcamp

import (
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/bcdl/internal/model"
)

// streamRedirectPrefix marks URLs that require a further resolution step
// and therefore never point at a directly downloadable asset.
const streamRedirectPrefix = "https://bandcamp.com/stream_redirect"

// coverArtBaseName is the fixed destination stem for album art; the
// extension comes from the art URL.
const coverArtBaseName = "albumart"

// Resolver turns a parsed album into the concrete list of asset jobs to
// download.
type Resolver struct {
	log *zap.Logger
}

// NewResolver creates a Resolver. A nil logger disables warnings.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log}
}

// Resolve maps every track of the album to an AssetJob under folder, in
// the album's original track order, then appends one job for the cover
// art when coverArtURL is non-empty.
//
// Tracks with no usable source URL are skipped with a warning; they are
// a degraded-page condition, not an error.
func (r *Resolver) Resolve(album *model.Album, folder, coverArtURL string) []model.AssetJob {
	jobs := make([]model.AssetJob, 0, len(album.Tracks)+1)

	for _, track := range album.Tracks {
		sourceURL, ok := selectSource(track.Sources)
		if !ok {
			r.log.Warn("no downloadable source for track, skipping",
				zap.String("album", album.Title),
				zap.Int("track", track.Number),
				zap.String("title", track.Title))
			continue
		}
		jobs = append(jobs, model.AssetJob{
			Destination: filepath.Join(folder, track.FileName()),
			SourceURL:   sourceURL,
			Track:       track,
		})
	}

	if coverArtURL != "" {
		jobs = append(jobs, model.AssetJob{
			Destination: filepath.Join(folder, coverArtBaseName+coverArtExt(coverArtURL)),
			SourceURL:   coverArtURL,
		})
	}

	return jobs
}

// selectSource picks the download URL for a track:
//
//  1. the "mp3-128" encoding when present,
//  2. otherwise the "mp3-v0" encoding,
//  3. when neither exists, or the preferred pick is a stream-redirect
//     endpoint, the first remaining candidate in lexicographic key order
//     that is not itself a redirect.
//
// The lexicographic order makes the fallback deterministic; the source
// mapping carries no ordering of its own. Returns false when the track
// has no usable candidate at all.
func selectSource(sources map[string]string) (string, bool) {
	preferred := sources["mp3-128"]
	if preferred == "" {
		preferred = sources["mp3-v0"]
	}
	if preferred != "" && !strings.HasPrefix(preferred, streamRedirectPrefix) {
		return preferred, true
	}

	keys := make([]string, 0, len(sources))
	for key := range sources {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		candidate := sources[key]
		if candidate != "" && !strings.HasPrefix(candidate, streamRedirectPrefix) {
			return candidate, true
		}
	}
	return "", false
}

// coverArtExt returns the extension (with dot) of the art URL's final
// path segment, or empty when it has none.
func coverArtExt(artURL string) string {
	if u, err := url.Parse(artURL); err == nil {
		return path.Ext(u.Path)
	}
	return path.Ext(artURL)
}
