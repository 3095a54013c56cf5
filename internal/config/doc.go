// Package config provides configuration structures and utilities for nlcamel.
// It defines the main options for sourcing domains, crawling candidate paths,
// and writing detection results.
package config
