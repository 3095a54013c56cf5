// Package crawler implements the per-domain path explorer.
// It fetches a fixed, ordered list of candidate paths for one domain, runs
// the signal detector on every successful fetch, and aggregates the results
// into a single site record.
package crawler
