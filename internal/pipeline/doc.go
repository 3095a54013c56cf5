// Package pipeline implements the crawl orchestrator: a bounded worker pool
// that runs the per-domain path explorer over a candidate domain source,
// aggregates run statistics, and hands completed site records to the
// configured sinks.
package pipeline
