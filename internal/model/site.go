package model

// SiteRecord is the unit of persistence produced for one candidate domain
// after all of its paths have been explored.
//
// Invariant: ResolvedURL is the final URL (after redirects) of the first
// path that returned a non-error response, independent of which path later
// produced the maximum confidence.
type SiteRecord struct {
	// Domain is the bare domain name that was explored.
	Domain string

	// ResolvedURL is the URL of the first successful fetch.
	ResolvedURL string

	// Classified reports whether the maximum confidence over all explored
	// paths reached ClassifyThreshold.
	Classified bool

	// Confidence is the maximum confidence observed across all paths.
	Confidence int

	// Signals holds the path-tagged signal tags ("<path>:<category>:<detail>"),
	// sorted, aggregated from every path that raised the running maximum.
	Signals []string

	// Paths holds the candidate paths that contributed a classified result,
	// sorted.
	Paths []string
}

// CandidateSite is a positively-classified site read back from the detection
// result store.
type CandidateSite struct {
	// Domain is the bare domain name.
	Domain string

	// URL is the resolved URL recorded at scan time.
	URL string

	// Confidence is the recorded maximum confidence.
	Confidence int

	// Paths holds the recorded contributing paths.
	Paths []string
}
