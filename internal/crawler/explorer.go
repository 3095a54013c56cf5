package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/mhammadzahi/nl-camel/internal/detector"
	"github.com/mhammadzahi/nl-camel/internal/model"
)

// ErrNoSuccessfulFetch is returned when every candidate path for a domain
// failed. Callers must count this as an error, not as a negative
// classification: we learned nothing about the site.
var ErrNoSuccessfulFetch = errors.New("no candidate path returned a successful response")

// CandidatePaths is the fixed, ordered list of paths tried per domain.
// Order matters: the root is tried first and is the only path that can
// trigger an early exit.
var CandidatePaths = []string{"/", "/newsletter", "/subscribe", "/contact", "/about"}

// Explorer drives the ordered path-trial sequence for single domains.
//
// Design decision: We require an external *http.Client rather than building
// one because:
//  1. Timeout, TLS, and redirect policy are configured once by the caller
//  2. Tests can point the explorer at httptest servers
//  3. Consistent with how the detector is injected
type Explorer struct {
	// client is the HTTP client used for all fetches.
	client *http.Client

	// engine scores fetched documents.
	engine *detector.Engine

	// paths is the ordered candidate path list.
	paths []string

	// scheme is the URL scheme used to build fetch URLs.
	scheme string

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits how much of a response body is read.
	maxBodySize int64
}

// Option configures an Explorer.
type Option func(*Explorer)

// WithPaths overrides the candidate path list.
func WithPaths(paths []string) Option {
	return func(e *Explorer) {
		if len(paths) > 0 {
			e.paths = paths
		}
	}
}

// WithScheme overrides the URL scheme. The default is "https"; tests use
// "http" to hit httptest servers.
func WithScheme(scheme string) Option {
	return func(e *Explorer) {
		if scheme != "" {
			e.scheme = scheme
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(e *Explorer) {
		e.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(e *Explorer) {
		if size > 0 {
			e.maxBodySize = size
		}
	}
}

// NewExplorer creates an Explorer using the given HTTP client and detection
// engine.
func NewExplorer(client *http.Client, engine *detector.Engine, opts ...Option) *Explorer {
	e := &Explorer{
		client:      client,
		engine:      engine,
		paths:       CandidatePaths,
		scheme:      "https",
		userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Explore tries every candidate path for the domain in order and aggregates
// detection results into a SiteRecord.
//
// A non-success status (>=400) or any network failure skips to the next
// path. The first successful fetch fixes the record's resolved URL. A path's
// detection result only updates the aggregate when it is classified and its
// confidence strictly exceeds the running maximum; ties never overwrite.
// When the root path alone reaches the early-exit threshold, remaining paths
// are skipped.
//
// Returns ErrNoSuccessfulFetch if every path failed.
func (e *Explorer) Explore(ctx context.Context, domain string) (*model.SiteRecord, error) {
	var resolvedURL string
	maxConfidence := 0
	signals := make(map[string]bool)
	contributing := make(map[string]bool)

	for _, path := range e.paths {
		pageURL := e.scheme + "://" + domain + path

		page, finalURL, err := e.fetch(ctx, pageURL)
		if err != nil {
			// Unreachable path, skip to the next one.
			continue
		}

		if resolvedURL == "" {
			resolvedURL = finalURL
		}

		result := e.engine.Detect(page)

		if result.Classified && result.Confidence > maxConfidence {
			maxConfidence = result.Confidence
			contributing[path] = true
			for _, tag := range result.Tags() {
				signals[path+":"+tag] = true
			}
		}

		if path == "/" && result.Confidence >= model.RootEarlyExitThreshold {
			break
		}
	}

	if resolvedURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoSuccessfulFetch, domain)
	}

	return &model.SiteRecord{
		Domain:      domain,
		ResolvedURL: resolvedURL,
		Classified:  maxConfidence >= model.ClassifyThreshold,
		Confidence:  maxConfidence,
		Signals:     sortedKeys(signals),
		Paths:       sortedKeys(contributing),
	}, nil
}

// fetch retrieves one URL and parses the body into a detector page.
// It returns the parsed page and the final URL after redirects.
func (e *Explorer) fetch(ctx context.Context, pageURL string) (*detector.Page, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}

	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", fmt.Errorf("status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodySize))
	if err != nil {
		return nil, "", err
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	page, err := detector.NewPage(finalURL, string(body))
	if err != nil {
		return nil, "", err
	}

	return page, finalURL, nil
}

// sortedKeys returns the map keys in sorted order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
