// Package httpclient provides the authenticated HTTP client used for all
// Bandcamp requests.
//
// Every request carries the identity-session cookie, and failures are
// surfaced as typed errors so callers can tell a remote rejection from a
// network problem:
//
//	client := httpclient.New(cookie, logger)
//	body, err := client.Fetch(ctx, url)
//	var se *httpclient.StatusError
//	if errors.As(err, &se) && se.Code == http.StatusForbidden {
//	    // remote refused the request
//	}
//
// An empty response body is a valid, non-error result; callers treat it
// as "nothing to write".
package httpclient
