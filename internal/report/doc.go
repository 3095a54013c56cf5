// Package report persists and presents crawl results: an append-only CSV
// sink written during the crawl, read-back of persisted rows, and a Markdown
// run summary.
package report
