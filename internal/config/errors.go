package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidWorkers is returned when the worker count is not positive.
	// Zero workers would mean no domains get processed.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxDomains is returned when the domain cap is not positive.
	// A cap of zero would make every run a no-op.
	ErrInvalidMaxDomains = errors.New("invalid max domains: must be positive")

	// ErrNoDomainSource is returned when neither explicit domains nor a
	// list URL is configured. There would be nothing to scan.
	ErrNoDomainSource = errors.New("no domain source: provide domains or a list URL")

	// ErrNoOutputFile is returned when the CSV output path is empty.
	// Results must always land in the CSV file.
	ErrNoOutputFile = errors.New("no output file: provide a CSV path")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
