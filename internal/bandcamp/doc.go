// Package bandcamp turns Bandcamp pages and API responses into the
// download plan the rest of bcdl executes.
//
// # Album page parsing
//
// Bandcamp embeds album data as JSON in the page head under a
// `data-tralbum` attribute. Parser extracts that blob, validates it and
// produces a model.Album:
//
//	parser := bandcamp.NewParser(logger)
//	album, err := parser.ParseAlbumPage(html)
//
// # Asset resolution
//
// Resolver maps a parsed album to concrete asset jobs, applying the
// source-quality preference (mp3-128, then mp3-v0, then a deterministic
// fallback) and appending cover art last:
//
//	jobs := resolver.Resolve(album, folder, coverArtURL)
//
// # Entitlement
//
// AssertEntitled gates retrieval on the purchase flag. Resolving jobs
// for an unowned album is permitted (it is read-only); dispatching them
// is not.
//
// # Collection listing
//
// CollectionClient pages through the fancollection API to enumerate
// everything the account has purchased.
package bandcamp
