// Package download executes the album-synchronization pipeline: it turns
// album URLs into asset jobs (via the bandcamp package) and drives the
// concurrent retrieval of those jobs into the local library.
//
// # Orchestrator
//
// Orchestrator runs one batch of asset jobs. Jobs whose destination
// already exists are reported as skipped without any network activity;
// the rest are fetched concurrently under a configurable cap. Failures
// are isolated: one job's error never cancels its siblings, and the
// batch Report carries every job's outcome in job order.
//
//	report := orch.Run(ctx, jobs)
//	if err := report.Err(); err != nil {
//	    // aggregated per-job failures
//	}
//
// # Manager
//
// Manager composes the full per-album flow: fetch page, parse and
// validate metadata, assert entitlement, resolve assets, orchestrate the
// batch, then tag the downloaded tracks. A multi-album Sync continues
// past albums that fail resolution (bad metadata, not purchased) and
// reports each album's result separately.
package download
