package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the crawl characteristics of public web servers and
// the ranked-domain lists the tool consumes.
const (
	// DefaultWorkers is the number of domains processed concurrently.
	// Each worker issues at most one HTTP request at a time, so this bounds
	// the number of simultaneous outbound connections.
	DefaultWorkers = 20

	// DefaultTimeout is the per-request HTTP timeout. Public web servers
	// respond quickly or not at all; 8 seconds keeps dead domains from
	// stalling a worker for long.
	DefaultTimeout = 8 * time.Second

	// DefaultMaxDomains caps how many domains a single run processes.
	// This bounds run time on large ranked lists. Users can raise it via
	// the --max-domains CLI flag.
	DefaultMaxDomains = 100000

	// DefaultListSize is how many top-ranked domains to take from the
	// downloaded list before applying DefaultMaxDomains.
	DefaultListSize = 10000

	// DefaultReportEvery controls how often batch progress is logged,
	// measured in completed domains.
	DefaultReportEvery = 50

	// DefaultUserAgent identifies nlcamel in HTTP requests.
	// A descriptive User-Agent allows operators to identify scanner
	// traffic in their logs.
	DefaultUserAgent = "nlcamel/1.0 (+https://github.com/mhammadzahi/nl-camel)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultListURL is the ranked-domain list downloaded when no explicit
	// domain source is given. The payload is a zip archive containing a
	// single "rank,domain" CSV.
	DefaultListURL = "https://tranco-list.eu/top-1m.csv.zip"

	// DefaultOutputFile is the CSV file detection results are written to.
	DefaultOutputFile = "newsletter_sites.csv"

	// AppName is the application name used for XDG directory paths.
	AppName = "nlcamel"
)

// Config holds all configuration options for nlcamel.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Workers is the number of domains processed concurrently.
	// Higher values increase throughput but also outbound connection count.
	Workers int

	// Timeout is the HTTP timeout for each page fetch.
	// This applies to individual requests, not the overall run duration.
	Timeout time.Duration

	// MaxDomains caps how many domains this run processes.
	MaxDomains int

	// ListSize is how many top-ranked domains to take from the
	// downloaded list.
	ListSize int

	// ListURL is where the ranked-domain list is downloaded from.
	ListURL string

	// Domains is an explicit list of domains to scan. When non-empty it
	// takes precedence over downloading ListURL.
	Domains []string

	// OutputFile is the CSV path detection results are appended to.
	OutputFile string

	// DBDir is the directory path for storing the SQLite database.
	// When set, results are also saved to the database for historical
	// comparison. When empty, results go to the CSV only.
	DBDir string

	// SaveToDB indicates whether to save results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Insecure disables TLS certificate verification. Many low-ranked
	// domains serve expired or mismatched certificates; skipping
	// verification trades safety for coverage.
	Insecure bool

	// ReportEvery controls how often batch progress is logged, measured
	// in completed domains.
	ReportEvery int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory
	// exhaustion. Set to 0 to use the default (5MB).
	MaxBodySize int64

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .nlcamel.yaml in the current
	// directory and then in the XDG config directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, worker
// count). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Workers:     DefaultWorkers,
		Timeout:     DefaultTimeout,
		MaxDomains:  DefaultMaxDomains,
		ListSize:    DefaultListSize,
		ListURL:     DefaultListURL,
		OutputFile:  DefaultOutputFile,
		ReportEvery: DefaultReportEvery,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for nlcamel.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/nlcamel
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for nlcamel.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/nlcamel
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// Workers must be positive; zero would mean no crawling
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// MaxDomains must be positive; zero would mean an empty run
	if c.MaxDomains <= 0 {
		return ErrInvalidMaxDomains
	}

	// A run needs either explicit domains or a list to download
	if len(c.Domains) == 0 && c.ListURL == "" {
		return ErrNoDomainSource
	}

	// The CSV sink is mandatory; the database is the optional one
	if c.OutputFile == "" {
		return ErrNoOutputFile
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
