// Package model defines the core data structures used throughout bcdl.
//
// # Album and Track
//
// Album holds the metadata parsed from a Bandcamp album page, including
// the purchase flag that gates downloads:
//
//	folder := album.Folder("/music")
//	// "/music/Artist/Album Title"
//
// # AssetJob
//
// AssetJob is one (destination, source) pair produced by asset
// resolution and consumed by the download orchestrator. Destinations are
// deterministic functions of the album metadata, so resolving the same
// album twice yields the same paths and jobs can be deduplicated by
// path alone.
package model
