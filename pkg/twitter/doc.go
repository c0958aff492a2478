// Package twitter provides a minimal Twitter API v2 client for the two
// calls the sync tool makes: resolving an account handle to its user ID,
// and fetching a single page of the account's recent tweets with photo
// media side-loaded.
//
// The client authenticates with an app-only bearer token and maps
// non-success HTTP statuses onto a typed Error taxonomy so callers can
// distinguish auth failures from rate limits and server errors. There is
// no retry and no pagination; one sync run makes exactly two requests.
package twitter
