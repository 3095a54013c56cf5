// Package source provides candidate domain name sources for the crawl
// pipeline: a remote ranked-list download and a deterministic local
// generator used as a fallback.
package source
