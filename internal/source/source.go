package source

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Source yields candidate domain names until exhausted. Sources are finite,
// non-restartable sequences: once Next returns false it stays false.
type Source interface {
	// Next returns the next domain and true, or "" and false at the end.
	Next() (string, bool)
}

// listSource iterates over a materialized domain list.
type listSource struct {
	domains []string
	idx     int
}

// Next returns the next domain in the list.
func (s *listSource) Next() (string, bool) {
	if s.idx >= len(s.domains) {
		return "", false
	}
	d := s.domains[s.idx]
	s.idx++
	return d, true
}

// FromDomains wraps a fixed domain list in a Source.
func FromDomains(domains []string) Source {
	return &listSource{domains: domains}
}

// limitSource caps how many domains the wrapped source yields.
type limitSource struct {
	inner Source
	left  int
}

// Next returns the next domain while the cap allows.
func (s *limitSource) Next() (string, bool) {
	if s.left <= 0 {
		return "", false
	}
	d, ok := s.inner.Next()
	if !ok {
		s.left = 0
		return "", false
	}
	s.left--
	return d, true
}

// Limit caps src at n domains. Non-positive n yields an empty source.
func Limit(src Source, n int) Source {
	return &limitSource{inner: src, left: n}
}

// FetchRankedList downloads a zip-wrapped ranked domain list (CSV lines of
// "rank,domain") and returns up to limit domains in list order.
//
// Design decision: We materialize the list rather than streaming it because
// the capped list is small (ten-thousands of short strings) and a
// materialized slice keeps the Source trivially correct. The zip archive has
// to be fully downloaded before it can be opened anyway.
func FetchRankedList(ctx context.Context, client *http.Client, listURL string, limit int) (Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid list URL: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download ranked list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ranked list download returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ranked list: %w", err)
	}

	domains, err := parseZippedList(payload, limit)
	if err != nil {
		return nil, err
	}

	return &listSource{domains: domains}, nil
}

// parseZippedList extracts domains from the first file of a zip archive
// containing "rank,domain" lines.
func parseZippedList(payload []byte, limit int) ([]string, error) {
	archive, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ranked list archive: %w", err)
	}
	if len(archive.File) == 0 {
		return nil, fmt.Errorf("ranked list archive is empty")
	}

	f, err := archive.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open archived list: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived list: %w", err)
	}

	domains := make([]string, 0, limit)
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if len(domains) >= limit {
			break
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		domain := strings.TrimSpace(parts[1])
		if domain != "" {
			domains = append(domains, domain)
		}
	}

	return domains, nil
}

// commonWords and commonTLDs drive the deterministic fallback generator.
// The grid is stable across runs so fallback crawls are reproducible.
var (
	commonWords = []string{
		"blog", "news", "tech", "business", "media", "digital", "daily",
		"weekly", "post", "times", "journal", "magazine", "review", "insider",
		"today", "world", "network", "online", "web", "site", "hub", "central",
	}
	commonTLDs = []string{"com", "org", "net", "io", "co"}
)

// generatorSource lazily yields the word x TLD grid.
type generatorSource struct {
	word, tld int
	yielded   int
	limit     int
}

// Next returns the next generated domain.
func (s *generatorSource) Next() (string, bool) {
	if s.word >= len(commonWords) || s.yielded >= s.limit {
		return "", false
	}

	domain := commonWords[s.word] + "." + commonTLDs[s.tld]
	s.yielded++
	s.tld++
	if s.tld >= len(commonTLDs) {
		s.tld = 0
		s.word++
	}
	return domain, true
}

// NewGenerator returns the deterministic fallback Source, capped at limit.
func NewGenerator(limit int) Source {
	return &generatorSource{limit: limit}
}

// New returns the best available Source: the remote ranked list when it can
// be fetched, otherwise the local generator. Remote failure is logged and
// never fatal.
func New(ctx context.Context, client *http.Client, listURL string, listSize, maxDomains int, logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}

	src, err := FetchRankedList(ctx, client, listURL, min(listSize, maxDomains))
	if err != nil {
		logger.Warn("falling back to generated domains", "error", err)
		return NewGenerator(maxDomains)
	}

	logger.Info("ranked domain list downloaded", "url", listURL)
	return src
}
