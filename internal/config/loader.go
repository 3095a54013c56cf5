package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".nlcamel.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .nlcamel.yaml configuration file.
// It carries the subset of options that make sense to persist between runs;
// CLI flags override anything loaded from here.
type File struct {
	// Workers overrides the default concurrent domain count.
	Workers int `yaml:"workers,omitempty"`

	// TimeoutSeconds overrides the default per-request timeout.
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`

	// MaxDomains overrides the default per-run domain cap.
	MaxDomains int `yaml:"maxDomains,omitempty"`

	// ListURL overrides the default ranked-domain list location.
	ListURL string `yaml:"listUrl,omitempty"`

	// Output overrides the default CSV output path.
	Output string `yaml:"output,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Domains is an explicit list of domains to scan instead of
	// downloading the ranked list.
	Domains []string `yaml:"domains,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies the file's non-zero settings onto cfg. Values already set
// by CLI flags should be applied after this, so flags win.
func (cf *File) Apply(cfg *Config) {
	if cf.Workers > 0 {
		cfg.Workers = cf.Workers
	}
	if cf.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(cf.TimeoutSeconds) * time.Second
	}
	if cf.MaxDomains > 0 {
		cfg.MaxDomains = cf.MaxDomains
	}
	if cf.ListURL != "" {
		cfg.ListURL = cf.ListURL
	}
	if cf.Output != "" {
		cfg.OutputFile = cf.Output
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if len(cf.Domains) > 0 {
		cfg.Domains = cf.Domains
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .nlcamel.yaml in the current directory
// 3. Look for .nlcamel.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check XDG config directory
	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
